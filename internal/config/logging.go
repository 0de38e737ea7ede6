package config

import (
	"log/slog"
	"os"
	"strings"
)

// LogLevel resolves the slog level: verbose wins, then CODEBOOK_LOG_LEVEL, then info.
func LogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("CODEBOOK_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

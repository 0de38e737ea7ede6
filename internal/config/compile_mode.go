package config

import (
	"log/slog"
	"os"
	"strings"
)

// CompileMode controls whether the LaTeX compiler runs after assembly.
type CompileMode string

const (
	CompileAlways CompileMode = "always" // Run; a missing compiler fails the build
	CompileAuto   CompileMode = "auto"   // Run only when the compiler is on PATH
	CompileNever  CompileMode = "never"  // Assemble only
)

// NormalizeCompileMode maps raw input to a CompileMode, or "" when unknown.
func NormalizeCompileMode(raw string) CompileMode {
	switch CompileMode(strings.ToLower(strings.TrimSpace(raw))) {
	case CompileAlways:
		return CompileAlways
	case CompileAuto:
		return CompileAuto
	case CompileNever, "skip":
		return CompileNever
	default:
		return ""
	}
}

// ResolveCompileMode applies CODEBOOK_SKIP_COMPILE=1 on top of the configured mode.
func ResolveCompileMode(cfg *Config) CompileMode {
	if os.Getenv("CODEBOOK_SKIP_COMPILE") == "1" {
		if cfg != nil && cfg.Compiler.Mode != CompileNever {
			slog.Info("Overriding configured compile mode due to CODEBOOK_SKIP_COMPILE=1", "configured", cfg.Compiler.Mode)
		}
		return CompileNever
	}
	if cfg == nil || cfg.Compiler.Mode == "" {
		return CompileAlways
	}
	return cfg.Compiler.Mode
}

package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/codebook/internal/config"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/history"
	"git.home.luguber.info/inful/codebook/internal/logfields"
)

// Global carries process-wide state into subcommands.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"codebook.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"1" help:"Assemble the notebook document and compile it"`
	Discover DiscoverCmd `cmd:"" help:"List the source files that would be referenced, in order"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration and template skeletons"`
	Watch    WatchCmd    `cmd:"" help:"Build, then rebuild whenever sources or templates change"`
	History  HistoryCmd  `cmd:"" help:"Show recorded builds"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.Config)
}

// openHistory opens the configured history database, or returns nil when
// history is disabled.
func openHistory(cfg *config.Config) (*history.SQLiteStore, error) {
	path := cfg.History.Path
	if path == "" {
		return nil, nil
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "create history directory").
				WithContext("path", path).
				Build()
		}
	}
	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "open build history").
			WithContext("path", path).
			Build()
	}
	return store, nil
}

func closeHistory(store *history.SQLiteStore) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close build history", logfields.Error(err))
	}
}

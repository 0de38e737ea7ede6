package commands

import (
	"context"
	"io"
	"time"

	"git.home.luguber.info/inful/codebook/internal/config"
	"git.home.luguber.info/inful/codebook/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce  time.Duration `help:"Quiet period before rebuilding (overrides watch.debounce)"`
	NoCompile bool          `name:"no-compile" help:"Only rewrite the document on changes"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	return RunWatch(g.ctx(), cfg, BuildOptions{NoCompile: w.NoCompile}, w.Debounce, g.stdout())
}

// RunWatch builds once and then after every relevant change until ctx ends.
func RunWatch(ctx context.Context, cfg *config.Config, opts BuildOptions, debounce time.Duration, out io.Writer) error {
	rebuild := func(ctx context.Context) error {
		_, err := RunBuild(ctx, cfg, opts, out)
		return err
	}
	return watch.New(cfg, rebuild).WithDebounce(debounce).Run(ctx)
}

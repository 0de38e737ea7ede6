package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/codebook/internal/build"
	"git.home.luguber.info/inful/codebook/internal/config"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/latex"
	"git.home.luguber.info/inful/codebook/internal/logfields"
	"git.home.luguber.info/inful/codebook/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	NoCompile   bool   `name:"no-compile" help:"Write the document without running the compiler"`
	Passes      int    `help:"Override compiler.passes"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text exposition format to this file"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	_, err = RunBuild(g.ctx(), cfg, BuildOptions{
		NoCompile:   b.NoCompile,
		Passes:      b.Passes,
		MetricsFile: b.MetricsFile,
	}, g.stdout())
	return err
}

// BuildOptions are the per-invocation overrides of the build command.
type BuildOptions struct {
	NoCompile   bool
	Passes      int
	MetricsFile string
	Runner      latex.Runner // nil runs the real compiler
}

// RunBuild performs one build and prints a short summary to out.
func RunBuild(ctx context.Context, cfg *config.Config, opts BuildOptions, out io.Writer) (*build.BuildResult, error) {
	if opts.Passes < 0 {
		return nil, ferrors.ValidationError("--passes must be at least 1").
			WithContext("passes", opts.Passes).
			Build()
	}
	if opts.Passes > 0 {
		cfg.Compiler.Passes = opts.Passes
	}

	svc := build.NewBuildService().WithCompilerOutput(out, os.Stderr)
	if opts.Runner != nil {
		svc.WithRunner(opts.Runner)
	}

	var recorder *metrics.PrometheusRecorder
	if opts.MetricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		svc.WithRecorder(recorder)
	}

	store, err := openHistory(cfg)
	if err != nil {
		slog.Warn("Build history disabled", logfields.Error(err))
	} else if store != nil {
		defer closeHistory(store)
		svc.WithHistory(store)
	}

	req := build.BuildRequest{Config: cfg}
	if opts.NoCompile {
		req.Mode = config.CompileNever
	}
	result, runErr := svc.Run(ctx, req)

	if recorder != nil {
		if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(opts.MetricsFile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return result, runErr
	}

	fmt.Fprintf(out, "Wrote %s with %d references\n", result.OutputPath, len(result.References))
	if result.Compiled {
		fmt.Fprintf(out, "Compiled with %s in %d passes\n", cfg.Compiler.Command, result.Passes)
	}
	return result, nil
}

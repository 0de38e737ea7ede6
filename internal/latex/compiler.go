package latex

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/logfields"
)

const (
	// DefaultCommand is the compiler executable looked up on PATH.
	DefaultCommand = "lualatex"
	// DefaultPasses is two: listing numbers and cross-references are only
	// resolved from the auxiliary file a previous pass wrote.
	DefaultPasses = 2
)

// PassObserver is notified after every compiler pass.
type PassObserver func(pass int, d time.Duration, err error)

// Compiler runs the LaTeX compiler a fixed number of passes.
type Compiler struct {
	Command string
	Passes  int
	Timeout time.Duration // Per pass; zero waits indefinitely
	Runner  Runner
	Stdout  io.Writer
	Stderr  io.Writer
	OnPass  PassObserver
}

// NewCompiler returns a compiler with the default command, passes and exec runner.
func NewCompiler() *Compiler {
	return &Compiler{
		Command: DefaultCommand,
		Passes:  DefaultPasses,
		Runner:  ExecRunner{},
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Compile runs the compiler against document, sequentially, once per pass.
// The process runs in the document's directory with the document's base name
// as its only positional argument, after any flags in the command line.
// The first failing pass stops the run and returns the number of passes
// that completed successfully.
func (c *Compiler) Compile(ctx context.Context, document string) (int, error) {
	command, flags, err := ParseCommand(c.Command)
	if err != nil {
		return 0, err
	}
	passes := c.Passes
	if passes < 1 {
		passes = DefaultPasses
	}
	runner := c.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	inv := Invocation{
		Command: command,
		Flags:   flags,
		Dir:     filepath.Dir(document),
		Arg:     filepath.Base(document),
		Stdout:  c.Stdout,
		Stderr:  c.Stderr,
	}

	for pass := 1; pass <= passes; pass++ {
		slog.Info("Running LaTeX compiler", logfields.Command(command), logfields.Pass(pass), logfields.File(inv.Arg))
		start := time.Now()
		timedOut, err := c.runPass(ctx, runner, inv)
		elapsed := time.Since(start)
		if c.OnPass != nil {
			c.OnPass(pass, elapsed, err)
		}
		if err != nil {
			return pass - 1, classify(ctx, err, timedOut, command, pass)
		}
		slog.Debug("Compiler pass finished", logfields.Pass(pass), logfields.DurationMS(float64(elapsed.Milliseconds())))
	}
	return passes, nil
}

// runPass reports whether the pass hit its own timeout, as opposed to the caller canceling.
func (c *Compiler) runPass(ctx context.Context, runner Runner, inv Invocation) (bool, error) {
	if c.Timeout <= 0 {
		return false, runner.Run(ctx, inv)
	}
	passCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	err := runner.Run(passCtx, inv)
	return err != nil && ctx.Err() == nil && errors.Is(passCtx.Err(), context.DeadlineExceeded), err
}

func classify(ctx context.Context, err error, timedOut bool, command string, pass int) error {
	if timedOut {
		return ferrors.WrapError(err, ferrors.CategoryExternalTool, "compiler pass timed out").
			Fatal().
			WithContext("command", command).
			WithContext("pass", pass).
			Build()
	}
	if ctx.Err() != nil {
		return ferrors.WrapError(err, ferrors.CategoryCanceled, "compiler interrupted").
			WithContext("command", command).
			WithContext("pass", pass).
			Build()
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return ferrors.WrapError(err, ferrors.CategoryExternalTool, "compiler exited with non-zero status").
			Fatal().
			WithContext("command", command).
			WithContext("pass", pass).
			WithContext("exit_code", exitErr.Code).
			Build()
	}
	return ferrors.WrapError(err, ferrors.CategoryExternalTool, "compiler could not be started").
		Fatal().
		WithContext("command", command).
		WithContext("pass", pass).
		Build()
}

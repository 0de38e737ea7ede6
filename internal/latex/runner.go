// Package latex invokes the external LaTeX compiler on the assembled document.
package latex

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"slices"
)

// Invocation is a single compiler process launch.
type Invocation struct {
	Command string
	Flags   []string // Options placed before Arg
	Dir     string
	Arg     string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Runner launches one compiler process and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExitError reports a process that ran and exited non-zero.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExecRunner runs the compiler with os/exec.
type ExecRunner struct{}

// Run starts the command with its flags and the document argument and waits for it.
// A launch failure is returned as is; a non-zero exit becomes *ExitError.
func (ExecRunner) Run(ctx context.Context, inv Invocation) error {
	args := append(slices.Clone(inv.Flags), inv.Arg)
	cmd := exec.CommandContext(ctx, inv.Command, args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Code: ee.ExitCode(), Err: err}
	}
	return err
}

// Available reports whether the executable of a command line resolves on PATH.
func Available(command string) bool {
	name, _, err := ParseCommand(command)
	if err != nil {
		return false
	}
	_, err = exec.LookPath(name)
	return err == nil
}

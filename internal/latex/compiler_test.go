package latex

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
)

type fakeRunner struct {
	calls []Invocation
	fail  map[int]error // 1-based pass -> error
}

func (f *fakeRunner) Run(_ context.Context, inv Invocation) error {
	f.calls = append(f.calls, inv)
	return f.fail[len(f.calls)]
}

func quietCompiler(r Runner) *Compiler {
	c := NewCompiler()
	c.Runner = r
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c
}

func TestCompile_RunsTwoPassesInDocumentDir(t *testing.T) {
	r := &fakeRunner{}
	doc := filepath.Join("out", "notebook", "build.tex")

	passes, err := quietCompiler(r).Compile(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, 2, passes)

	require.Len(t, r.calls, 2)
	for _, inv := range r.calls {
		require.Equal(t, "lualatex", inv.Command)
		require.Equal(t, filepath.Join("out", "notebook"), inv.Dir)
		require.Equal(t, "build.tex", inv.Arg)
	}
}

func TestCompile_FirstPassFailureStopsRun(t *testing.T) {
	r := &fakeRunner{fail: map[int]error{1: &ExitError{Code: 1, Err: errors.New("exit status 1")}}}

	passes, err := quietCompiler(r).Compile(context.Background(), "build.tex")
	require.Error(t, err)
	require.Equal(t, 0, passes)
	require.Len(t, r.calls, 1, "second pass must not start")

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryExternalTool, classified.Category())
	code, _ := classified.Context().GetInt("exit_code")
	require.Equal(t, 1, code)
	pass, _ := classified.Context().GetInt("pass")
	require.Equal(t, 1, pass)
}

func TestCompile_SecondPassFailure(t *testing.T) {
	r := &fakeRunner{fail: map[int]error{2: &ExitError{Code: 12, Err: errors.New("exit status 12")}}}

	passes, err := quietCompiler(r).Compile(context.Background(), "build.tex")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryExternalTool))
	require.Equal(t, 1, passes)
	require.Len(t, r.calls, 2)
}

func TestCompile_LaunchFailure(t *testing.T) {
	r := &fakeRunner{fail: map[int]error{1: errors.New("executable file not found in $PATH")}}

	_, err := quietCompiler(r).Compile(context.Background(), "build.tex")
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryExternalTool, classified.Category())
	require.Equal(t, "compiler could not be started", classified.Message())
}

func TestCompile_CustomPassesAndObserver(t *testing.T) {
	r := &fakeRunner{}
	c := quietCompiler(r)
	c.Command = "pdflatex"
	c.Passes = 3
	var seen []int
	c.OnPass = func(pass int, _ time.Duration, err error) {
		require.NoError(t, err)
		seen = append(seen, pass)
	}

	passes, err := c.Compile(context.Background(), "build.tex")
	require.NoError(t, err)
	require.Equal(t, 3, passes)
	require.Equal(t, []int{1, 2, 3}, seen)
	require.Equal(t, "pdflatex", r.calls[0].Command)
}

func TestCompile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeRunner{fail: map[int]error{1: context.Canceled}}

	_, err := quietCompiler(r).Compile(ctx, "build.tex")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryCanceled))
}

func skipWithoutPosixTools(t *testing.T, tools ...string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("posix tools required")
	}
	for _, tool := range tools {
		if !Available(tool) {
			t.Skipf("%s not on PATH", tool)
		}
	}
}

func TestExecRunner_ExitStatus(t *testing.T) {
	skipWithoutPosixTools(t, "true", "false")
	dir := t.TempDir()

	c := quietCompiler(ExecRunner{})
	c.Command = "true"
	passes, err := c.Compile(context.Background(), filepath.Join(dir, "build.tex"))
	require.NoError(t, err)
	require.Equal(t, 2, passes)

	c.Command = "false"
	passes, err = c.Compile(context.Background(), filepath.Join(dir, "build.tex"))
	require.Equal(t, 0, passes)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	code, _ := classified.Context().GetInt("exit_code")
	require.Equal(t, 1, code)
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	c := quietCompiler(ExecRunner{})
	c.Command = "codebook-definitely-missing-compiler"

	_, err := c.Compile(context.Background(), filepath.Join(t.TempDir(), "build.tex"))
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryExternalTool))
}

func TestExecRunner_Timeout(t *testing.T) {
	skipWithoutPosixTools(t, "sleep")

	c := quietCompiler(ExecRunner{})
	c.Command = "sleep"
	c.Timeout = 50 * time.Millisecond

	// sleep receives the document name as its only argument.
	_, err := c.Compile(context.Background(), filepath.Join(t.TempDir(), "5"))
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "compiler pass timed out", classified.Message())
}

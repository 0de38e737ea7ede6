package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/codebook/internal/config"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/latex"
	helpers "git.home.luguber.info/inful/codebook/internal/testutil/testutils"
)

type fakeRunner struct {
	calls []latex.Invocation
	fail  map[int]error
}

func (f *fakeRunner) Run(_ context.Context, inv latex.Invocation) error {
	f.calls = append(f.calls, inv)
	return f.fail[len(f.calls)]
}

// notebook creates a project in a temp dir and changes into it.
func notebook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CODEBOOK_SKIP_COMPILE", "")
	helpers.WriteTree(t, dir, map[string]string{
		"part1.tex":         "HEAD\n",
		"part2.tex":         "TAIL\n",
		"io/judge_io.cpp":   "",
		"algo/solution.cpp": "",
		"runner.sh":         "",
		"readme.md":         "",
	})
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Ctx: context.Background(), Stdout: &out}, cli)
	return out.String(), err
}

func TestBuildCommand_NoCompileWritesDocument(t *testing.T) {
	dir := notebook(t)

	out, err := run(t, "build", "--no-compile")
	require.NoError(t, err)
	require.Contains(t, out, "with 3 references")
	require.NotContains(t, out, "Compiled")

	helpers.NewFileAssertions(t, dir).AssertFileEquals("build.tex",
		"HEAD\n"+
			"\\code{judge_io}{io/judge_io.cpp}\n"+
			"\\code{runner}{runner.sh}\n"+
			"\\code{solution}{algo/solution.cpp}\n"+
			"TAIL\n")
}

func TestRunBuild_CompilesTwiceAndWritesMetrics(t *testing.T) {
	dir := notebook(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	runner := &fakeRunner{}
	metricsPath := filepath.Join(dir, "codebook.prom")
	var out bytes.Buffer
	res, err := RunBuild(context.Background(), cfg, BuildOptions{Runner: runner, MetricsFile: metricsPath}, &out)
	require.NoError(t, err)
	require.Equal(t, 2, res.Passes)
	require.Len(t, runner.calls, 2)
	for _, inv := range runner.calls {
		require.Equal(t, "lualatex", inv.Command)
		require.Equal(t, "build.tex", inv.Arg)
	}
	require.Contains(t, out.String(), "Compiled with lualatex in 2 passes")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(prom), `codebook_build_outcomes_total{outcome="success"} 1`)
	require.Contains(t, string(prom), "codebook_references 3")
}

func TestRunBuild_FirstPassFailureStops(t *testing.T) {
	notebook(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	runner := &fakeRunner{fail: map[int]error{1: &latex.ExitError{Code: 1, Err: errors.New("exit status 1")}}}
	_, err = RunBuild(context.Background(), cfg, BuildOptions{Runner: runner}, &bytes.Buffer{})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryExternalTool))
	require.Len(t, runner.calls, 1)
}

func TestRunBuild_PassesOverride(t *testing.T) {
	notebook(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	runner := &fakeRunner{}
	_, err = RunBuild(context.Background(), cfg, BuildOptions{Runner: runner, Passes: 3}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, runner.calls, 3)

	_, err = RunBuild(context.Background(), cfg, BuildOptions{Runner: runner, Passes: -1}, &bytes.Buffer{})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestBuildCommand_MissingTemplate(t *testing.T) {
	dir := notebook(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "part2.tex")))

	_, err := run(t, "build", "--no-compile")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileAccess))
	require.NoFileExists(t, filepath.Join(dir, "build.tex"))
}

func TestDiscoverCommand(t *testing.T) {
	dir := notebook(t)

	out, err := run(t, "discover")
	require.NoError(t, err)
	require.Equal(t, "judge_io\tio/judge_io.cpp\nrunner\trunner.sh\nsolution\talgo/solution.cpp\n", out)
	require.NoFileExists(t, filepath.Join(dir, "build.tex"))

	out, err = run(t, "discover", "--lines")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "\\code{judge_io}{io/judge_io.cpp}\n"))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := run(t, "init")
	require.NoError(t, err)
	require.Contains(t, out, "initialized successfully")
	helpers.NewFileAssertions(t, dir).
		AssertFileExists(config.DefaultPath).
		AssertFileContains("part1.tex", `\newcommand{\code}[2]`).
		AssertFileEquals("part2.tex", tailSkeleton)

	_, err = run(t, "init")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "part2.tex"), []byte("custom"), 0o644))
	_, err = run(t, "init", "--force")
	require.NoError(t, err)
	tail, err := os.ReadFile(filepath.Join(dir, "part2.tex"))
	require.NoError(t, err)
	require.Equal(t, tailSkeleton, string(tail))
}

func TestHistoryCommand(t *testing.T) {
	dir := notebook(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "codebook.yaml"),
		[]byte("history:\n  path: .codebook/history.db\n"), 0o644))

	out, err := run(t, "history")
	require.NoError(t, err)
	require.Contains(t, out, "No builds recorded")

	_, err = run(t, "build", "--no-compile")
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "part1.tex")))
	_, err = run(t, "build", "--no-compile")
	require.Error(t, err)

	out, err = run(t, "history", "-n", "0")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "OUTCOME")
	require.Contains(t, lines[1], "failed")
	require.Contains(t, lines[2], "success")
}

func TestHistoryCommand_Disabled(t *testing.T) {
	notebook(t)
	_, err := run(t, "history")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestRunWatch_StopsOnCancel(t *testing.T) {
	dir := notebook(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunWatch(ctx, cfg, BuildOptions{NoCompile: true}, 0, &bytes.Buffer{}) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "build.tex"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

package build

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/codebook/internal/assemble"
	"git.home.luguber.info/inful/codebook/internal/codefiles"
	"git.home.luguber.info/inful/codebook/internal/config"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/gitinfo"
	"git.home.luguber.info/inful/codebook/internal/history"
	"git.home.luguber.info/inful/codebook/internal/latex"
	"git.home.luguber.info/inful/codebook/internal/logfields"
	"git.home.luguber.info/inful/codebook/internal/metrics"
)

// DefaultBuildService is the standard implementation of BuildService.
// It runs assemble, then compile, strictly in sequence.
type DefaultBuildService struct {
	runner   latex.Runner
	stdout   io.Writer
	stderr   io.Writer
	lookPath func(string) bool
	revision func(dir string) (string, error)
	newID    func() string
	recorder metrics.Recorder
	history  history.Store
}

// NewBuildService creates a DefaultBuildService that shells out with os/exec.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		runner:   latex.ExecRunner{},
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		lookPath: latex.Available,
		revision: gitinfo.Revision,
		newID:    uuid.NewString,
		recorder: metrics.NoopRecorder{},
	}
}

// WithRunner injects the compiler process runner (for testing).
func (s *DefaultBuildService) WithRunner(r latex.Runner) *DefaultBuildService {
	s.runner = r
	return s
}

// WithCompilerOutput redirects compiler stdout and stderr.
func (s *DefaultBuildService) WithCompilerOutput(stdout, stderr io.Writer) *DefaultBuildService {
	s.stdout, s.stderr = stdout, stderr
	return s
}

// WithLookPath replaces the PATH probe used by the auto compile mode.
func (s *DefaultBuildService) WithLookPath(fn func(string) bool) *DefaultBuildService {
	s.lookPath = fn
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithHistory records every run in store.
func (s *DefaultBuildService) WithHistory(store history.Store) *DefaultBuildService {
	s.history = store
	return s
}

// Run executes one full build.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	cfg := req.Config
	if cfg == nil {
		return nil, ferrors.InternalError("build request without configuration").Build()
	}

	result := &BuildResult{
		BuildID:    s.newID(),
		OutputPath: cfg.Output,
		StartTime:  time.Now(),
	}
	log := slog.With(logfields.BuildID(result.BuildID))
	log.Info("Starting notebook build", logfields.Root(cfg.Root), logfields.Output(cfg.Output))

	err := s.run(ctx, log, cfg, req.Mode, result)

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Status = statusFor(err)
	s.recorder.ObserveBuildDuration(result.Duration)
	s.recorder.IncBuildOutcome(outcomeLabel(result.Status))
	s.record(ctx, log, cfg, result, err)

	if err != nil {
		log.Error("Build failed", logfields.Outcome(string(result.Status)), logfields.Error(err))
		return result, err
	}
	log.Info("Build completed",
		logfields.Count(len(result.References)),
		logfields.Pass(result.Passes),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

func (s *DefaultBuildService) run(ctx context.Context, log *slog.Logger, cfg *config.Config, mode config.CompileMode, result *BuildResult) error {
	if rev, err := s.revision(cfg.Root); err != nil {
		log.Warn("Failed to read git revision", logfields.Root(cfg.Root), logfields.Error(err))
	} else {
		result.Revision = rev
	}

	refs, err := s.assemble(ctx, cfg)
	if err != nil {
		return err
	}
	result.References = refs

	if mode == "" {
		mode = config.ResolveCompileMode(cfg)
	}
	switch mode {
	case config.CompileNever:
		log.Info("Skipping compilation", "mode", mode)
		s.recorder.IncStageResult(StageCompile, metrics.ResultSkipped)
		return nil
	case config.CompileAuto:
		if !s.lookPath(cfg.Compiler.Command) {
			log.Warn("Compiler not found on PATH; skipping compilation", logfields.Command(cfg.Compiler.Command))
			s.recorder.IncStageResult(StageCompile, metrics.ResultSkipped)
			return nil
		}
	}

	passes, err := s.compile(ctx, cfg)
	result.Passes = passes
	result.Compiled = err == nil
	return err
}

func (s *DefaultBuildService) assemble(ctx context.Context, cfg *config.Config) ([]codefiles.Reference, error) {
	opts, err := AssembleOptions(cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	refs, err := assemble.New(opts).Run(ctx)
	s.finishStage(StageAssemble, start, err)
	if err == nil {
		s.recorder.SetReferences(len(refs))
	}
	return refs, err
}

// AssembleOptions maps cfg onto the assembler. Reference paths are made
// relative to the output's directory, where the compiler runs.
func AssembleOptions(cfg *config.Config) (assemble.Options, error) {
	line, err := assemble.ParseLineTemplate(cfg.ReferenceFormat)
	if err != nil {
		return assemble.Options{}, err
	}
	return assemble.Options{
		HeadPath:        cfg.Templates.Head,
		TailPath:        cfg.Templates.Tail,
		Root:            cfg.Root,
		Base:            filepath.Dir(cfg.Output),
		OutputPath:      cfg.Output,
		Extensions:      codefiles.NewExtensions(cfg.Extensions...),
		PriorityKeyword: cfg.Keyword(),
		Line:            line,
	}, nil
}

func (s *DefaultBuildService) compile(ctx context.Context, cfg *config.Config) (int, error) {
	compiler := &latex.Compiler{
		Command: cfg.Compiler.Command,
		Passes:  cfg.Compiler.Passes,
		Timeout: cfg.CompileTimeout(),
		Runner:  s.runner,
		Stdout:  s.stdout,
		Stderr:  s.stderr,
		OnPass: func(pass int, d time.Duration, err error) {
			s.recorder.ObserveCompilePass(pass, d, err == nil)
		},
	}

	start := time.Now()
	passes, err := compiler.Compile(ctx, cfg.Output)
	s.finishStage(StageCompile, start, err)
	return passes, err
}

func (s *DefaultBuildService) finishStage(stage string, start time.Time, err error) {
	s.recorder.ObserveStageDuration(stage, time.Since(start))
	s.recorder.IncStageResult(stage, outcomeLabel(statusFor(err)))
}

func (s *DefaultBuildService) record(ctx context.Context, log *slog.Logger, cfg *config.Config, result *BuildResult, runErr error) {
	if s.history == nil {
		return
	}
	rec := history.Record{
		BuildID:    result.BuildID,
		StartedAt:  result.StartTime,
		FinishedAt: result.EndTime,
		Root:       cfg.Root,
		Output:     cfg.Output,
		Revision:   result.Revision,
		References: len(result.References),
		Passes:     result.Passes,
		Outcome:    history.Outcome(result.Status),
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	// A canceled run still gets recorded.
	if err := s.history.Append(context.WithoutCancel(ctx), rec); err != nil {
		log.Warn("Failed to record build history", logfields.Error(err))
	}
}

func statusFor(err error) BuildStatus {
	switch {
	case err == nil:
		return BuildStatusSuccess
	case ferrors.HasCategory(err, ferrors.CategoryCanceled):
		return BuildStatusCanceled
	default:
		return BuildStatusFailed
	}
}

func outcomeLabel(s BuildStatus) metrics.ResultLabel {
	switch s {
	case BuildStatusSuccess:
		return metrics.ResultSuccess
	case BuildStatusCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}

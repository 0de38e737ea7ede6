// Package build provides the canonical build pipeline for codebook.
// All execution paths (build command, watch mode, tests) route through BuildService.
package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/codebook/internal/codefiles"
	"git.home.luguber.info/inful/codebook/internal/config"
)

// BuildService executes notebook builds.
type BuildService interface {
	// Run assembles the intermediate document and compiles it.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// Mode overrides Config.Compiler.Mode when set.
	Mode config.CompileMode
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	BuildID    string
	Status     BuildStatus
	References []codefiles.Reference
	OutputPath string
	Passes     int    // Compiler passes that completed successfully
	Compiled   bool   // False when compilation was skipped
	Revision   string // Git HEAD of the root, empty outside a repository
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess  BuildStatus = "success"
	BuildStatusFailed   BuildStatus = "failed"
	BuildStatusCanceled BuildStatus = "canceled"
)

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}

// Stage names used for logging and metrics.
const (
	StageAssemble = "assemble"
	StageCompile  = "compile"
)

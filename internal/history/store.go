// Package history persists a record of every build run in SQLite.
package history

import (
	"context"
	"time"
)

// Outcome is the final status of a build run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Record is one build run.
type Record struct {
	BuildID    string
	StartedAt  time.Time
	FinishedAt time.Time
	Root       string
	Output     string
	Revision   string
	References int
	Passes     int
	Outcome    Outcome
	Error      string
}

// Duration is the wall time of the run.
func (r Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists build records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

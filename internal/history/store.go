// Package history journals publish runs to SQLite so operators can audit what
// was published where, and when, without digging through the hosting branch.
package history

import (
	"context"
	"time"
)

// Outcome labels recorded for a publish run.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeUnchanged = "unchanged"
)

// Run is one journal entry.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Remote     string
	Branch     string
	CommitHash string
	Files      int
	Outcome    string
	Error      string
}

// Store defines the interface for persisting and retrieving publish runs.
type Store interface {
	// Record appends a completed run to the journal.
	Record(ctx context.Context, run Run) error

	// Recent retrieves the most recent runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// Close closes the store and releases resources.
	Close() error
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Node kinds stored in results.kind.
const (
	KindSuite = "suite"
	KindTest  = "test"
)

// Result statuses stored in results.status.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusErrored = "errored"
)

// Run is one recorded invocation of the runner.
type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Errored     int       `json:"errored"`
	Skipped     int       `json:"skipped"`
	SuiteErrors int       `json:"suite_errors"`
}

// Result is the outcome of one suite or test within a run.
type Result struct {
	Seq     int64  `json:"seq"`
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewRunID returns a fresh UUIDv7 run identifier.
func NewRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return id.String(), nil
}

// WriteRun inserts run and its results in a single transaction and returns
// the run's ID. An empty run.ID is replaced with a new UUIDv7.
// Either the whole run is stored or nothing is.
func (s *Store) WriteRun(ctx context.Context, run Run, results []Result) (string, error) {
	if run.ID == "" {
		id, err := NewRunID()
		if err != nil {
			return "", fmt.Errorf("write run: %w", err)
		}
		run.ID = id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, finished_at, passed, failed, errored, skipped, suite_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.Passed,
		run.Failed,
		run.Errored,
		run.Skipped,
		run.SuiteErrors,
	)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (run_id, seq, path, kind, status, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("write run: prepare results: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, run.ID, r.Seq, r.Path, r.Kind, r.Status, r.Message); err != nil {
			return "", fmt.Errorf("write result %d (%s): %w", r.Seq, r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write run: commit: %w", err)
	}
	return run.ID, nil
}

// timeLayout is RFC 3339 with fixed-width nanoseconds so stored values sort
// lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

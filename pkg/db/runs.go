package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run status values.
const (
	RunRunning        = "running"
	RunSuccess        = "success"
	RunPartialFailure = "partial_failure"
	RunFailed         = "failed"
	RunAborted        = "aborted"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run is one invocation of the download command.
type Run struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	OutputDir    string
	URLCount     int
	SavedCount   int
	FailedCount  int
	SkippedCount int
	KeepGoing    bool
	Status       string
}

// RunCounts are the per-status totals written when a run finishes.
type RunCounts struct {
	Saved   int
	Failed  int
	Skipped int
}

// CreateRun inserts a run in the running state.
func (db *DB) CreateRun(runID, outputDir string, urlCount int, keepGoing bool) error {
	_, err := db.Exec(`
		INSERT INTO runs (run_id, output_dir, url_count, keep_going, status)
		VALUES (?, ?, ?, ?, ?)
	`, runID, outputDir, urlCount, keepGoing, RunRunning)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stores the final counts and status of a run.
func (db *DB) FinishRun(runID string, counts RunCounts, status string) error {
	res, err := db.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP, saved_count = ?, failed_count = ?, skipped_count = ?, status = ?
		WHERE run_id = ?
	`, counts.Saved, counts.Failed, counts.Skipped, status, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// GetRun returns a single run.
func (db *DB) GetRun(runID string) (*Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, started_at, finished_at, output_dir, url_count,
		       saved_count, failed_count, skipped_count, keep_going, status
		FROM runs WHERE run_id = ?
	`, runID).Scan(
		&r.RunID, &r.StartedAt, &r.FinishedAt, &r.OutputDir, &r.URLCount,
		&r.SavedCount, &r.FailedCount, &r.SkippedCount, &r.KeepGoing, &r.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, started_at, finished_at, output_dir, url_count,
		       saved_count, failed_count, skipped_count, keep_going, status
		FROM runs
		ORDER BY started_at DESC, rowid DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.RunID, &r.StartedAt, &r.FinishedAt, &r.OutputDir, &r.URLCount,
			&r.SavedCount, &r.FailedCount, &r.SkippedCount, &r.KeepGoing, &r.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRunID returns the ID of the most recently started run.
func (db *DB) LatestRunID() (string, error) {
	runs, err := db.ListRuns(1)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", ErrRunNotFound
	}
	return runs[0].RunID, nil
}

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Attempt status values.
const (
	AttemptSaved   = "saved"
	AttemptFailed  = "failed"
	AttemptSkipped = "skipped"
)

// Attempt is the outcome of processing one URL in a run.
type Attempt struct {
	AttemptID    int64
	RunID        string
	ListingID    sql.NullInt64
	URL          string
	Status       string
	Stage        string
	StatusCode   int
	ErrorMessage string
	FinalURL     string
	FilePath     string
	SizeBytes    int64
	ContentHash  string
	PageTitle    string
	CreatedAt    time.Time
}

// UpsertListing records a listing URL, returning its listing_id.
// If the URL already exists, returns the existing listing_id.
func (db *DB) UpsertListing(rawURL string, zpid int64, address, folderName string) (int64, error) {
	var existingID int64
	err := db.QueryRow("SELECT listing_id FROM listings WHERE url = ?", rawURL).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing listing: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO listings (url, zpid, address, folder_name)
		VALUES (?, ?, ?, ?)
	`, rawURL, zpid, address, folderName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert listing: %w", err)
	}

	listingID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get listing ID: %w", err)
	}
	return listingID, nil
}

// RecordAttempt inserts one attempt row.
func (db *DB) RecordAttempt(a Attempt) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO attempts (run_id, listing_id, url, status, stage, status_code, error_message,
		                      final_url, file_path, size_bytes, content_hash, page_title)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.RunID, a.ListingID, a.URL, a.Status, NewNullString(a.Stage), a.StatusCode, NewNullString(a.ErrorMessage),
		NewNullString(a.FinalURL), NewNullString(a.FilePath), a.SizeBytes, NewNullString(a.ContentHash), NewNullString(a.PageTitle))
	if err != nil {
		return 0, fmt.Errorf("failed to record attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt ID: %w", err)
	}
	return id, nil
}

// GetRunAttempts returns the attempts of a run in processing order.
func (db *DB) GetRunAttempts(runID string) ([]Attempt, error) {
	rows, err := db.Query(`
		SELECT attempt_id, run_id, listing_id, url, status,
		       COALESCE(stage, ''), COALESCE(status_code, 0), COALESCE(error_message, ''),
		       COALESCE(final_url, ''), COALESCE(file_path, ''), COALESCE(size_bytes, 0),
		       COALESCE(content_hash, ''), COALESCE(page_title, ''), created_at
		FROM attempts
		WHERE run_id = ?
		ORDER BY attempt_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(
			&a.AttemptID, &a.RunID, &a.ListingID, &a.URL, &a.Status,
			&a.Stage, &a.StatusCode, &a.ErrorMessage,
			&a.FinalURL, &a.FilePath, &a.SizeBytes,
			&a.ContentHash, &a.PageTitle, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// NewNullString returns a NULL for empty strings.
func NewNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

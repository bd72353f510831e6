package download

import (
	"database/sql"
	"fmt"

	"github.com/dtnitsch/download-zillow-listings/pkg/db"
	"github.com/dtnitsch/download-zillow-listings/pkg/listing"
)

// historyRecorder writes attempts of one run to the history database.
type historyRecorder struct {
	database *db.DB
	runID    string
}

func newHistoryRecorder(database *db.DB, runID string) *historyRecorder {
	return &historyRecorder{database: database, runID: runID}
}

func (h *historyRecorder) Record(r Result, parsed *listing.URL) error {
	attempt := db.Attempt{
		RunID:       h.runID,
		URL:         r.URL,
		Status:      r.Status,
		StatusCode:  r.StatusCode,
		FinalURL:    r.FinalURL,
		FilePath:    r.FilePath,
		SizeBytes:   r.SizeBytes,
		ContentHash: r.Hash,
		PageTitle:   r.Title,
	}
	if r.Err != nil {
		attempt.Stage = r.Err.Stage
		attempt.ErrorMessage = r.Err.Err.Error()
	}
	if r.Status == StatusSkipped {
		attempt.ErrorMessage = r.Note
	}

	if parsed != nil {
		folder := r.FolderName
		if folder == "" {
			folder, _ = parsed.FolderName()
		}
		listingID, err := h.database.UpsertListing(parsed.Raw, parsed.ZPID, parsed.Address, folder)
		if err != nil {
			return fmt.Errorf("failed to record listing: %w", err)
		}
		attempt.ListingID = sql.NullInt64{Int64: listingID, Valid: true}
	}

	_, err := h.database.RecordAttempt(attempt)
	return err
}

package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := open(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return database
}

func TestOpen_CreatesSchema(t *testing.T) {
	dir := t.TempDir()

	database, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := database.CreateRun("run-1", dir, 1, false); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	database.Close()

	// Reopening must keep existing data.
	database, err = Open(dir)
	if err != nil {
		t.Fatalf("Open() second call error = %v", err)
	}
	defer database.Close()

	if _, err := database.GetRun("run-1"); err != nil {
		t.Errorf("GetRun() after reopen error = %v", err)
	}
}

func TestOpenExisting_DoesNotCreate(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenExisting(dir)
	if !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("OpenExisting() error = %v, want ErrNoDatabase", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, DefaultDBName)); !os.IsNotExist(statErr) {
		t.Errorf("OpenExisting() created %s", DefaultDBName)
	}

	created, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	created.Close()

	existing, err := OpenExisting(dir)
	if err != nil {
		t.Fatalf("OpenExisting() after Open error = %v", err)
	}
	existing.Close()
}

func TestCreateAndFinishRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.CreateRun("run-1", "downloaded-webpages", 3, true); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	run, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != RunRunning {
		t.Errorf("run.Status = %q, want %q", run.Status, RunRunning)
	}
	if run.FinishedAt.Valid {
		t.Error("run.FinishedAt is set before FinishRun")
	}
	if !run.KeepGoing {
		t.Error("run.KeepGoing = false, want true")
	}
	if run.URLCount != 3 {
		t.Errorf("run.URLCount = %d, want 3", run.URLCount)
	}

	if err := db.FinishRun("run-1", RunCounts{Saved: 1, Failed: 1, Skipped: 1}, RunPartialFailure); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, err = db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != RunPartialFailure {
		t.Errorf("run.Status = %q, want %q", run.Status, RunPartialFailure)
	}
	if !run.FinishedAt.Valid {
		t.Error("run.FinishedAt not set after FinishRun")
	}
	if run.SavedCount != 1 || run.FailedCount != 1 || run.SkippedCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", run.SavedCount, run.FailedCount, run.SkippedCount)
	}
}

func TestFinishRun_Unknown(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.FinishRun("missing", RunCounts{}, RunSuccess)
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("FinishRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestGetRun_Unknown(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetRun("missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.LatestRunID(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LatestRunID() on empty db error = %v, want ErrRunNotFound", err)
	}

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		if err := db.CreateRun(id, "out", 1, false); err != nil {
			t.Fatalf("CreateRun(%s) error = %v", id, err)
		}
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "all runs newest first", limit: 0, want: []string{"run-c", "run-b", "run-a"}},
		{name: "limited", limit: 2, want: []string{"run-c", "run-b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := db.ListRuns(tt.limit)
			if err != nil {
				t.Fatalf("ListRuns() error = %v", err)
			}
			if len(runs) != len(tt.want) {
				t.Fatalf("ListRuns() returned %d runs, want %d", len(runs), len(tt.want))
			}
			for i, r := range runs {
				if r.RunID != tt.want[i] {
					t.Errorf("runs[%d].RunID = %q, want %q", i, r.RunID, tt.want[i])
				}
			}
		})
	}

	latest, err := db.LatestRunID()
	if err != nil {
		t.Fatalf("LatestRunID() error = %v", err)
	}
	if latest != "run-c" {
		t.Errorf("LatestRunID() = %q, want %q", latest, "run-c")
	}
}

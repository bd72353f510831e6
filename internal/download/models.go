package download

import (
	"errors"
	"fmt"
)

// Result status values.
const (
	StatusSaved   = "saved"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Stages at which a listing can fail.
const (
	StageParse = "parse"
	StageFetch = "fetch"
	StageSave  = "save"
)

// ErrPartialFailure is returned by Run in keep-going mode when at least one
// listing failed.
var ErrPartialFailure = errors.New("one or more listings failed")

// ListingError ties a failure to the URL and stage that produced it.
type ListingError struct {
	URL   string
	Stage string
	Err   error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.URL, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// Result holds the outcome of one processed URL.
type Result struct {
	URL        string
	FolderName string
	FilePath   string
	FinalURL   string
	StatusCode int
	SizeBytes  int64
	Hash       string
	Title      string
	Canonical  string
	Status     string
	Note       string // why a URL was skipped
	Err        *ListingError
}

// ResultOutput is the structured output for a single URL.
type ResultOutput struct {
	URL        string `json:"url" yaml:"url"`
	FolderName string `json:"folder_name,omitempty" yaml:"folder_name,omitempty"`
	FilePath   string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	FinalURL   string `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Canonical  string `json:"canonical_url,omitempty" yaml:"canonical_url,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	Status     string `json:"status" yaml:"status"`
	Note       string `json:"note,omitempty" yaml:"note,omitempty"`
	ErrorStage string `json:"error_stage,omitempty" yaml:"error_stage,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalURLs        int     `json:"total_urls" yaml:"total_urls"`
	Saved            int     `json:"saved" yaml:"saved"`
	Failed           int     `json:"failed" yaml:"failed"`
	Skipped          int     `json:"skipped" yaml:"skipped"`
	NotAttempted     int     `json:"not_attempted" yaml:"not_attempted"`
	TotalTimeSeconds float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	RunID     string         `json:"run_id" yaml:"run_id"`
	Status    string         `json:"status" yaml:"status"`
	OutputDir string         `json:"output_dir" yaml:"output_dir"`
	LogFile   string         `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
	Results   []ResultOutput `json:"results" yaml:"results"`
	Stats     Stats          `json:"stats" yaml:"stats"`
}

func (r Result) output() ResultOutput {
	out := ResultOutput{
		URL:        r.URL,
		FolderName: r.FolderName,
		FilePath:   r.FilePath,
		FinalURL:   r.FinalURL,
		Title:      r.Title,
		Canonical:  r.Canonical,
		SizeBytes:  r.SizeBytes,
		Status:     r.Status,
		Note:       r.Note,
	}
	if r.Err != nil {
		out.ErrorStage = r.Err.Stage
		out.Error = r.Err.Err.Error()
	}
	return out
}

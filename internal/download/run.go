package download

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dtnitsch/download-zillow-listings/internal/common"
	"github.com/dtnitsch/download-zillow-listings/pkg/fetcher"
	"github.com/dtnitsch/download-zillow-listings/pkg/listing"
	"github.com/dtnitsch/download-zillow-listings/pkg/pageinfo"
)

// PageFetcher retrieves one listing page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Result, error)
}

// ListingStore persists a listing page under its folder name.
type ListingStore interface {
	SaveListing(folder string, payload []byte) (string, error)
}

// Recorder is told about every processed URL. Recording failures are logged
// and never fail the run.
type Recorder interface {
	Record(r Result, parsed *listing.URL) error
}

type Deps struct {
	Fetcher  PageFetcher
	Store    ListingStore
	Logger   *slog.Logger
	Recorder Recorder // optional

	// BaseDir is only used to print paths relative to its parent.
	BaseDir string
}

type Options struct {
	// KeepGoing isolates failures per URL instead of halting the run.
	KeepGoing bool
}

// Run processes urls strictly in order: derive the folder name, fetch, save.
//
// By default the first failure halts the run and is returned as a
// *ListingError; results collected so far are returned with it. With
// KeepGoing every URL is attempted and ErrPartialFailure is returned if any
// failed. Cancelling ctx stops the loop before the next URL.
func Run(ctx context.Context, deps Deps, urls []string, opts Options) ([]Result, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results := make([]Result, 0, len(urls))
	failed := 0

	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			logger.Warn("Run interrupted", "processed", i, "remaining", len(urls)-i)
			return results, fmt.Errorf("run interrupted after %d of %d listings: %w", i, len(urls), err)
		}

		logger.Debug("Processing listing", "index", i+1, "total", len(urls), "url", rawURL)
		result, parsed := processOne(ctx, deps, logger, rawURL)
		results = append(results, result)

		if deps.Recorder != nil {
			if err := deps.Recorder.Record(result, parsed); err != nil {
				logger.Warn("Failed to record attempt in history", "url", rawURL, "error", err)
			}
		}

		if result.Err == nil {
			continue
		}

		failed++
		logger.Error("Failed to download listing", "url", rawURL, "stage", result.Err.Stage, "error", result.Err.Err)
		if !opts.KeepGoing {
			return results, result.Err
		}
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d", ErrPartialFailure, failed, len(urls))
	}
	return results, nil
}

func processOne(ctx context.Context, deps Deps, logger *slog.Logger, rawURL string) (Result, *listing.URL) {
	result := Result{URL: rawURL, Status: StatusFailed}
	fail := func(stage string, err error) Result {
		result.Err = &ListingError{URL: rawURL, Stage: stage, Err: err}
		return result
	}

	parsed, err := listing.Parse(rawURL)
	if err != nil {
		return fail(StageParse, err), nil
	}
	folder, err := parsed.FolderName()
	if err != nil {
		return fail(StageParse, err), &parsed
	}
	result.FolderName = folder

	// Nothing touches the filesystem until the page is in memory, so a
	// failed fetch never leaves an empty listing directory behind.
	page, err := deps.Fetcher.Fetch(ctx, parsed.Raw)
	if err != nil {
		return fail(StageFetch, err), &parsed
	}
	result.FinalURL = page.FinalURL
	result.StatusCode = page.StatusCode

	path, err := deps.Store.SaveListing(folder, page.Body)
	if err != nil {
		return fail(StageSave, err), &parsed
	}
	result.FilePath = path
	result.SizeBytes = int64(len(page.Body))
	result.Hash = common.ContentHash(page.Body)
	result.Status = StatusSaved

	if info, err := pageinfo.Inspect(page.Body); err != nil {
		logger.Debug("Could not inspect page", "url", rawURL, "error", err)
	} else {
		result.Title = info.Title
		result.Canonical = info.CanonicalURL
	}

	logger.Info("Downloaded listing", "url", rawURL, "file", displayPath(deps.BaseDir, path), "bytes", result.SizeBytes)
	return result, &parsed
}

// displayPath shows path relative to the parent of baseDir, e.g.
// downloaded-webpages/123-Fake-St/index.html.
func displayPath(baseDir, path string) string {
	if baseDir == "" {
		return path
	}
	rel, err := filepath.Rel(filepath.Dir(filepath.Clean(baseDir)), path)
	if err != nil {
		return path
	}
	return rel
}

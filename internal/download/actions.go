package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dtnitsch/download-zillow-listings/internal/common"
	"github.com/dtnitsch/download-zillow-listings/models"
	"github.com/dtnitsch/download-zillow-listings/pkg/artifact_manager"
	"github.com/dtnitsch/download-zillow-listings/pkg/db"
	"github.com/dtnitsch/download-zillow-listings/pkg/fetcher"
	"github.com/dtnitsch/download-zillow-listings/pkg/listing"
	"github.com/dtnitsch/download-zillow-listings/pkg/logging"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Exit codes.
const (
	ExitPartial = 1
	ExitFailed  = 2
)

// Flags returns the flags of the download command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "urls",
			Aliases: []string{"u"},
			Usage:   "listing URLs to download (comma-separated or repeated)",
		},
		&cli.StringFlag{
			Name:    "urls-file",
			Aliases: []string{"f"},
			Usage:   "YAML file with a top-level `urls:` list",
			EnvVars: []string{"ZDL_URLS_FILE"},
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Value:   artifact_manager.DefaultBaseDir,
			Usage:   "root directory listings are saved under",
			EnvVars: []string{"ZDL_OUTPUT_DIR"},
		},
		&cli.BoolFlag{
			Name:    "keep-going",
			Aliases: []string{"k"},
			Usage:   "continue with the remaining URLs when one fails",
			EnvVars: []string{"ZDL_KEEP_GOING"},
		},
		&cli.BoolFlag{
			Name:  "skip-existing",
			Usage: "skip listings whose folder already exists in the output directory",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   fetcher.DefaultTimeout,
			Usage:   "per-request timeout",
			EnvVars: []string{"ZDL_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "user-agent",
			Value:   fetcher.DefaultUserAgent,
			Usage:   "User-Agent header sent with each request",
			EnvVars: []string{"ZDL_USER_AGENT"},
		},
		&cli.StringFlag{
			Name:  "format",
			Value: "json",
			Usage: "run summary format: json or yaml",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "do not record the run in the history database",
		},
		&cli.BoolFlag{
			Name:  "no-log-file",
			Usage: "only log to stderr",
		},
	}
}

// Command returns the download command.
func Command() *cli.Command {
	return &cli.Command{
		Name:      "download",
		Usage:     "download listing pages to <output-dir>/<address>/index.html",
		ArgsUsage: "[url...]",
		Flags:     Flags(),
		Action:    DownloadAction,
	}
}

// configFromContext folds flags, the URL list file and positional arguments
// into a DownloadConfig.
func configFromContext(c *cli.Context) (*models.DownloadConfig, error) {
	var fromFile []string
	if path := c.String("urls-file"); path != "" {
		var err error
		fromFile, err = models.LoadURLList(path)
		if err != nil {
			return nil, err
		}
	}

	return &models.DownloadConfig{
		URLs:         common.CollectURLs(fromFile, c.StringSlice("urls"), c.Args().Slice()),
		OutputDir:    c.String("output-dir"),
		KeepGoing:    c.Bool("keep-going"),
		SkipExisting: c.Bool("skip-existing"),
		Timeout:      c.Duration("timeout"),
		UserAgent:    c.String("user-agent"),
		Format:       strings.ToLower(c.String("format")),
		History:      !c.Bool("no-history"),
	}, nil
}

// newLogger builds the run logger from the global logging flags.
func newLogger(c *cli.Context, outputDir string, start time.Time) (*slog.Logger, io.Closer, string, error) {
	level, err := logging.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, nil, "", err
	}
	if c.Bool("quiet") {
		level = slog.LevelError
	}
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}

	opts := logging.Options{
		Writer:    c.App.ErrWriter,
		Level:     level,
		Format:    c.String("log-format"),
		NoColor:   c.Bool("no-color"),
		FileLevel: slog.LevelDebug,
	}
	if !c.Bool("no-log-file") {
		opts.FilePath = logging.RunLogPath(outputDir, start)
	}

	logger, closer, err := logging.New(opts)
	if err != nil {
		return nil, nil, "", err
	}
	return logger, closer, opts.FilePath, nil
}

func DownloadAction(c *cli.Context) error {
	startTime := time.Now()

	cfg, err := configFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitPartial)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("%s\n\nUsage: zdl download --urls \"https://www.zillow.com/homedetails/<address>/<zpid>_zpid/\"", err), ExitPartial)
	}

	manager, err := artifact_manager.NewManager(cfg.OutputDir)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to initialize output directory: %v", err), ExitFailed)
	}

	logger, closer, logFile, err := newLogger(c, cfg.OutputDir, startTime)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to configure logging: %v", err), ExitFailed)
	}
	defer closer.Close()

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	if logFile != "" {
		logger.Info("Logging configured", "log_file", logFile)
	}

	urls := cfg.URLs
	var skipped []Result
	if cfg.SkipExisting {
		urls, skipped = FilterExisting(urls, manager.HasListing)
		logger.Info("Filtered already downloaded listings", "skipped", len(skipped), "remaining", len(urls))
	}

	var recorder *historyRecorder
	if cfg.History {
		database, err := db.Open(cfg.OutputDir)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to open history database: %v", err), ExitFailed)
		}
		defer database.Close()

		if err := database.CreateRun(runID, cfg.OutputDir, len(cfg.URLs), cfg.KeepGoing); err != nil {
			return cli.Exit(fmt.Sprintf("failed to record run: %v", err), ExitFailed)
		}
		recorder = newHistoryRecorder(database, runID)
		for _, s := range skipped {
			parsed, _ := listing.Parse(s.URL)
			if err := recorder.Record(s, &parsed); err != nil {
				logger.Warn("Failed to record skipped listing", "url", s.URL, "error", err)
			}
		}
	}

	f, err := fetcher.NewFetcher(fetcher.Options{Timeout: cfg.Timeout, UserAgent: cfg.UserAgent})
	if err != nil {
		return cli.Exit(err.Error(), ExitFailed)
	}

	deps := Deps{Fetcher: f, Store: manager, Logger: logger, BaseDir: manager.BaseDir()}
	if recorder != nil {
		deps.Recorder = recorder
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	logger.Info("Starting download", "url_count", len(urls), "output_dir", cfg.OutputDir, "keep_going", cfg.KeepGoing)
	results, runErr := Run(ctx, deps, urls, Options{KeepGoing: cfg.KeepGoing})

	all := append(skipped, results...)
	output := buildOutput(runID, cfg, all, len(urls)-len(results), runErr, time.Since(startTime))
	output.LogFile = logFile

	if recorder != nil {
		counts := db.RunCounts{Saved: output.Stats.Saved, Failed: output.Stats.Failed, Skipped: output.Stats.Skipped}
		if err := recorder.database.FinishRun(runID, counts, output.Status); err != nil {
			logger.Warn("Failed to finish run in history", "error", err)
		}
	}

	if failedFolders := failedAddresses(all); len(failedFolders) > 0 {
		logger.Error("The following URLs could not be downloaded", "listings", strings.Join(failedFolders, ", "))
	}
	logger.Info("Run finished", "status", output.Status, "saved", output.Stats.Saved,
		"failed", output.Stats.Failed, "skipped", output.Stats.Skipped)

	if err := writeOutput(c.App.Writer, output, cfg.Format); err != nil {
		return cli.Exit(fmt.Sprintf("failed to write summary: %v", err), ExitFailed)
	}

	return exitFor(output, runErr)
}

// buildOutput summarizes a run. notAttempted counts URLs never reached
// because the run halted early.
func buildOutput(runID string, cfg *models.DownloadConfig, results []Result, notAttempted int, runErr error, elapsed time.Duration) *FinalOutput {
	out := &FinalOutput{
		RunID:     runID,
		OutputDir: cfg.OutputDir,
		Results:   make([]ResultOutput, 0, len(results)),
		Stats: Stats{
			TotalURLs:        len(cfg.URLs),
			NotAttempted:     notAttempted,
			TotalTimeSeconds: elapsed.Seconds(),
		},
	}
	for _, r := range results {
		out.Results = append(out.Results, r.output())
		switch r.Status {
		case StatusSaved:
			out.Stats.Saved++
		case StatusFailed:
			out.Stats.Failed++
		case StatusSkipped:
			out.Stats.Skipped++
		}
	}

	switch {
	case runErr == nil:
		out.Status = db.RunSuccess
	case errors.Is(runErr, context.Canceled), out.Stats.Failed == 0:
		out.Status = db.RunAborted
	case out.Stats.Saved > 0:
		out.Status = db.RunPartialFailure
	default:
		out.Status = db.RunFailed
	}
	if runErr != nil {
		out.Error = runErr.Error()
	}
	return out
}

func failedAddresses(results []Result) []string {
	var names []string
	for _, r := range results {
		if r.Status != StatusFailed {
			continue
		}
		if r.FolderName != "" {
			names = append(names, r.FolderName)
		} else {
			names = append(names, r.URL)
		}
	}
	return names
}

func writeOutput(w io.Writer, output *FinalOutput, format string) error {
	var data []byte
	var err error
	if format == "yaml" {
		data, err = yaml.Marshal(output)
	} else {
		data, err = json.MarshalIndent(output, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// exitFor maps the run outcome to the process exit status: 0 when nothing
// failed, 2 when nothing was saved, 1 otherwise.
func exitFor(output *FinalOutput, runErr error) error {
	if runErr == nil {
		return nil
	}
	if output.Stats.Saved == 0 {
		return cli.Exit(runErr.Error(), ExitFailed)
	}
	return cli.Exit(runErr.Error(), ExitPartial)
}

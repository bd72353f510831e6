package history

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/download-zillow-listings/pkg/artifact_manager"
	"github.com/dtnitsch/download-zillow-listings/pkg/db"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

var errNoRuns = errors.New("no runs found. Run 'zdl download --urls \"...\"' first")

func outputDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output-dir",
		Aliases: []string{"o"},
		Value:   artifact_manager.DefaultBaseDir,
		Usage:   "output directory holding the history database",
		EnvVars: []string{"ZDL_OUTPUT_DIR"},
	}
}

// Command returns the history command and its run subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list previous download runs",
		Flags: []cli.Flag{
			outputDirFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   20,
				Usage:   "maximum number of runs to show (0 for all)",
			},
		},
		Action: RunsAction,
		Subcommands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "show the attempts of one run (latest when no ID is given)",
				ArgsUsage: "[run-id]",
				Flags:     []cli.Flag{outputDirFlag()},
				Action:    RunAction,
			},
		},
	}
}

// openHistory opens an existing history database. It returns nil, nil when
// the output directory has none yet.
func openHistory(c *cli.Context) (*db.DB, error) {
	database, err := db.OpenExisting(c.String("output-dir"))
	if errors.Is(err, db.ErrNoDatabase) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func RunsAction(c *cli.Context) error {
	w := c.App.Writer
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	if database == nil {
		fmt.Fprintln(w, "No runs found")
		return nil
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-36s %-16s %-16s %-6s %-6s %-6s %-7s\n",
		"Run ID", "Started", "Status", "URLs", "Saved", "Failed", "Skipped")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s %-16s %-16s %-6d %-6d %-6d %-7d\n",
			r.RunID,
			humanize.Time(r.StartedAt),
			r.Status,
			r.URLCount,
			r.SavedCount,
			r.FailedCount,
			r.SkippedCount,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'zdl history run <run-id>' to see details\n")
	return nil
}

// RunAction prints one run and its attempts.
func RunAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	if database == nil {
		return errNoRuns
	}
	defer database.Close()

	runID, err := runIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}
	attempts, err := database.GetRunAttempts(runID)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %s\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Started:     %s (%s)\n", run.StartedAt.Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt))
	if run.FinishedAt.Valid {
		fmt.Fprintf(w, "Duration:    %s\n", run.FinishedAt.Time.Sub(run.StartedAt))
	}
	fmt.Fprintf(w, "Directory:   %s\n", run.OutputDir)
	fmt.Fprintf(w, "Status:      %s\n", run.Status)
	fmt.Fprintf(w, "URLs:        %d total (%d saved, %d failed, %d skipped)\n",
		run.URLCount, run.SavedCount, run.FailedCount, run.SkippedCount)
	fmt.Fprintf(w, "Keep going:  %t\n", run.KeepGoing)

	if len(attempts) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\nAttempts (%d):\n", len(attempts))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, a := range attempts {
		fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, a.Status, a.URL)
		switch a.Status {
		case db.AttemptFailed:
			fmt.Fprintf(w, "    Error: [%s] %s\n", a.Stage, a.ErrorMessage)
		case db.AttemptSkipped:
			fmt.Fprintf(w, "    Skipped: %s\n", a.ErrorMessage)
		default:
			fmt.Fprintf(w, "    Status: %d | Size: %s | File: %s\n",
				a.StatusCode, humanize.Bytes(uint64(a.SizeBytes)), a.FilePath)
		}
	}
	return nil
}

func runIDOrLatest(c *cli.Context, database *db.DB) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}
	runID, err := database.LatestRunID()
	if errors.Is(err, db.ErrRunNotFound) {
		return "", errNoRuns
	}
	return runID, err
}

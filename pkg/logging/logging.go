// Package logging builds the slog.Logger used by the CLI: a console handler
// on stderr plus an optional per-run JSON log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	LogFileName = "log.log"
)

type Options struct {
	// Console
	Writer  io.Writer // defaults to os.Stderr
	Level   slog.Level
	Format  string // text (coloured) or json
	NoColor bool

	// File. Empty FilePath disables file logging.
	FilePath   string
	FileLevel  slog.Level
	MaxSizeMB  int
	MaxBackups int
}

// New returns a logger and a closer for the file sink. The closer is a no-op
// when file logging is disabled.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	var console slog.Handler
	switch opts.Format {
	case FormatJSON:
		console = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{Level: opts.Level})
	case FormatText, "":
		console = tint.NewHandler(opts.Writer, &tint.Options{
			Level:      opts.Level,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    opts.NoColor,
		})
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	if opts.FilePath == "" {
		return slog.New(console), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 50
	}
	file := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		LocalTime:  true,
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: opts.FileLevel})

	return slog.New(slogmulti.Fanout(console, fileHandler)), file, nil
}

// RunLogPath returns root/logs/<year>/<month>/<day>/<hour>/<minute>/<second>/log.log
// for the given start time, one directory per run.
func RunLogPath(root string, start time.Time) string {
	parts := []string{root, "logs"}
	for _, n := range []int{start.Year(), int(start.Month()), start.Day(), start.Hour(), start.Minute(), start.Second()} {
		parts = append(parts, strconv.Itoa(n))
	}
	parts = append(parts, LogFileName)
	return filepath.Join(parts...)
}

// ParseLevel maps a level name to a slog level. An empty name is info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

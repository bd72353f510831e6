// Package app assembles the zdl command line.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dtnitsch/download-zillow-listings/internal/download"
	"github.com/dtnitsch/download-zillow-listings/internal/history"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	Version = "0.1.0"

	defaultEnvFile = ".env"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "console log level (debug, info, warn, error)",
			EnvVars: []string{"ZDL_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "console log format: text or json",
			EnvVars: []string{"ZDL_LOG_FORMAT"},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only log errors to the console",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log debug messages to the console",
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Usage:   "disable coloured console logs",
			EnvVars: []string{"NO_COLOR"},
		},
		&cli.StringFlag{
			Name:  "env-file",
			Value: defaultEnvFile,
			Usage: "dotenv file loaded before flags are resolved",
		},
	}
}

// loadEnvFile loads a dotenv file. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// envFileFromArgs finds the --env-file value in raw arguments. Flags are not
// parsed yet when the dotenv file has to be loaded.
func envFileFromArgs(args []string) string {
	path := defaultEnvFile
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "env-file" {
			continue
		}
		if hasValue {
			path = value
		} else if i+1 < len(args) {
			path = args[i+1]
			i++
		}
	}
	return path
}

// Run loads the dotenv file named by --env-file into the environment, then
// runs a. Every flag, global or per command, sees the loaded variables.
func Run(a *cli.App, args []string) error {
	if err := loadEnvFile(envFileFromArgs(args)); err != nil {
		return err
	}
	return a.Run(args)
}

// New returns the zdl application.
func New() *cli.App {
	return &cli.App{
		Name:                 "zdl",
		Usage:                "download Zillow listing pages for offline processing",
		Version:              Version,
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Commands: []*cli.Command{
			download.Command(),
			download.FolderNameCommand(),
			history.Command(),
		},
	}
}

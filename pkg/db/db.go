// Package db stores the download history: runs, the listings they touched and
// one attempt row per processed URL. Each output directory has its own
// SQLite file.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const DefaultDBName = "zdl.db"

// ErrNoDatabase is returned by OpenExisting when a directory has no history.
var ErrNoDatabase = errors.New("no history database")

type DB struct {
	*sql.DB
}

// Open opens the history in dir, creating the file and tables on first use.
func Open(dir string) (*DB, error) {
	return open(filepath.Join(dir, DefaultDBName))
}

// OpenExisting opens the history in dir without creating anything.
func OpenExisting(dir string) (*DB, error) {
	path := filepath.Join(dir, DefaultDBName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoDatabase, dir)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return open(path)
}

// open applies the schema on every call; every statement in it is idempotent.
func open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dsn, err)
	}
	// PRAGMAs and ":memory:" contents are per connection.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to apply schema to %s: %w", dsn, err)
	}
	return &DB{DB: conn}, nil
}

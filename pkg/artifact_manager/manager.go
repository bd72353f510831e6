package artifact_manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dtnitsch/download-zillow-listings/pkg/storage"
)

const (
	DefaultBaseDir = "downloaded-webpages"
	IndexFileName  = "index.html"
	LogsDir        = "logs"
)

// ErrInvalidFolder is wrapped by IOError when a folder name would escape the
// base directory.
var ErrInvalidFolder = errors.New("invalid listing folder name")

// IOError reports a filesystem failure while storing or reading a listing.
type IOError struct {
	Op      string
	Path    string
	Wrapped error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s '%s': %v", e.Op, e.Path, e.Wrapped)
}

func (e *IOError) Unwrap() error {
	return e.Wrapped
}

// Manager stores one index.html per listing under baseDir/<folder>/.
type Manager struct {
	baseDir string
	store   *storage.Storage
}

// NewManager creates a Manager rooted at baseDir, creating it if needed.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, &IOError{Op: "create base directory", Path: baseDir, Wrapped: err}
	}
	return &Manager{baseDir: baseDir, store: &storage.Storage{}}, nil
}

// BaseDir returns the output root.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// ListingDir returns baseDir/<folder>.
// Example: downloaded-webpages/123-Fake-St-Emerald-City-MO-12345
func (m *Manager) ListingDir(folder string) (string, error) {
	if folder == "" || folder == "." || folder == ".." || strings.ContainsAny(folder, `/\`) || folder == LogsDir {
		return "", &IOError{Op: "resolve listing directory", Path: folder, Wrapped: ErrInvalidFolder}
	}
	return filepath.Join(m.baseDir, folder), nil
}

// ListingPath returns baseDir/<folder>/index.html.
func (m *Manager) ListingPath(folder string) (string, error) {
	dir, err := m.ListingDir(folder)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, IndexFileName), nil
}

// SaveListing writes payload to baseDir/<folder>/index.html, replacing any
// earlier copy. A failed save leaves the earlier copy intact.
func (m *Manager) SaveListing(folder string, payload []byte) (string, error) {
	dir, err := m.ListingDir(folder)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &IOError{Op: "create listing directory", Path: dir, Wrapped: err}
	}

	path := filepath.Join(dir, IndexFileName)
	if err := m.store.SaveFile(path, payload); err != nil {
		return "", &IOError{Op: "write", Path: path, Wrapped: err}
	}
	return path, nil
}

// ReadListing returns the stored index.html for folder.
func (m *Manager) ReadListing(folder string) ([]byte, error) {
	path, err := m.ListingPath(folder)
	if err != nil {
		return nil, err
	}
	data, err := m.store.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Wrapped: err}
	}
	return data, nil
}

// HasListing reports whether a directory for folder already exists.
func (m *Manager) HasListing(folder string) bool {
	dir, err := m.ListingDir(folder)
	if err != nil {
		return false
	}
	return m.store.HasDir(dir)
}

// ListingSize returns the size in bytes of a stored index.html.
func (m *Manager) ListingSize(folder string) (int64, error) {
	path, err := m.ListingPath(folder)
	if err != nil {
		return 0, err
	}
	stats, err := m.store.GetFileStats(path)
	if err != nil {
		return 0, &IOError{Op: "stat", Path: path, Wrapped: err}
	}
	return stats.SizeBytes, nil
}

// DownloadedFolders lists the listing directories under baseDir, sorted.
func (m *Manager) DownloadedFolders() ([]string, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return nil, &IOError{Op: "list", Path: m.baseDir, Wrapped: err}
	}

	var folders []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == LogsDir {
			continue
		}
		folders = append(folders, e.Name())
	}
	sort.Strings(folders)
	return folders, nil
}

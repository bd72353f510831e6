package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/natefinch/atomic"
)

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// SaveFile atomically replaces filePath with content: readers see either the
// old file or the new one, never a partial write. A replaced file keeps its
// mode; a new one is created 0644.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	_, statErr := os.Stat(filePath)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	if err := atomic.WriteFile(filePath, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	if isNew {
		if err := os.Chmod(filePath, 0644); err != nil {
			return fmt.Errorf("error setting file mode: %w", err)
		}
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(fn string) bool {
	info, err := os.Stat(fn)
	return err == nil && !info.IsDir()
}

func (s *Storage) HasDir(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

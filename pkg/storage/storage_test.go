package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveFile_WritesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "index.html")
	s := &Storage{}

	if err := s.SaveFile(fn, []byte("first")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if err := s.SaveFile(fn, []byte("second")); err != nil {
		t.Fatalf("SaveFile() second call error = %v", err)
	}

	data, err := s.ReadFile(fn)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("ReadFile() = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

func TestSaveFile_MissingDirectory(t *testing.T) {
	s := &Storage{}
	fn := filepath.Join(t.TempDir(), "missing", "index.html")

	if err := s.SaveFile(fn, []byte("x")); err == nil {
		t.Fatal("SaveFile() error = nil, want error for missing directory")
	}
}

func TestSaveFile_TargetIsDirectoryKeepsNoTemp(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "index.html")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	s := &Storage{}
	if err := s.SaveFile(target, []byte("payload")); err == nil {
		t.Fatal("SaveFile() error = nil, want error when target is a non-empty directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the original directory", len(entries))
	}
}

func TestHasFileAndDir(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "a.txt")
	s := &Storage{}

	if s.HasFile(fn) {
		t.Error("HasFile() = true before file exists")
	}
	if err := os.WriteFile(fn, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if !s.HasFile(fn) {
		t.Error("HasFile() = false after write")
	}
	if s.HasFile(dir) {
		t.Error("HasFile() = true for a directory")
	}
	if !s.HasDir(dir) {
		t.Error("HasDir() = false for a directory")
	}
	if s.HasDir(fn) {
		t.Error("HasDir() = true for a file")
	}

	stats, err := s.GetFileStats(fn)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != 1 {
		t.Errorf("SizeBytes = %d, want 1", stats.SizeBytes)
	}
}

func TestSaveFile_FileModes(t *testing.T) {
	dir := t.TempDir()
	s := &Storage{}

	fresh := filepath.Join(dir, "fresh.html")
	if err := s.SaveFile(fresh, []byte("x")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	info, err := os.Stat(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0644 {
		t.Errorf("new file mode = %v, want 0644", got)
	}

	private := filepath.Join(dir, "private.html")
	if err := os.WriteFile(private, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(private, 0600); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveFile(private, []byte("new")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	info, err = os.Stat(private)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0600 {
		t.Errorf("replaced file mode = %v, want 0600", got)
	}
}

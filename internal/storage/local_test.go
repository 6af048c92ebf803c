package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/AnyUserName/imgshrink/internal/errors"
)

func TestPersistWritesFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	path, err := s.Persist([]byte("hello"), "jpeg")
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("dir: got %s, want %s", filepath.Dir(path), dir)
	}
	if !strings.HasSuffix(path, ".jpeg") {
		t.Errorf("extension: got %s", path)
	}
	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("content: got %q", got)
	}

	other, _ := s.Persist([]byte("hello"), ".png")
	if other == path {
		t.Error("two persists share a file name")
	}
	if !strings.HasSuffix(other, ".png") || strings.HasSuffix(other, "..png") {
		t.Errorf("extension: got %s", other)
	}
}

func TestPersistEvictsAndRetries(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "old.jpeg"), make([]byte, 60), 0o644)
	os.WriteFile(filepath.Join(dir, "run.log"), make([]byte, 10), 0o644)

	s, _ := NewLocal(dir, WithQuota(100))
	path, err := s.Persist(make([]byte, 50), "png")
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.jpeg")); !os.IsNotExist(err) {
		t.Error("old.jpeg should be evicted")
	}
	if _, err := os.Stat(filepath.Join(dir, "run.log")); err != nil {
		t.Error("run.log should be kept")
	}
}

func TestPersistQuotaAfterRetry(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "big.log"), make([]byte, 90), 0o644)

	s, _ := NewLocal(dir, WithQuota(100))
	_, err := s.Persist(make([]byte, 50), "jpeg")
	if !apperrors.IsCategory(err, apperrors.CategoryStorageQuota) {
		t.Fatalf("got %v, want storage_quota error", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("entries: got %d, want 1", len(entries))
	}
}

func TestPersistCustomKeepPattern(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "keep.txt"), make([]byte, 20), 0o644)
	os.WriteFile(filepath.Join(dir, "drop.log"), make([]byte, 70), 0o644)

	s, _ := NewLocal(dir, WithQuota(100), WithKeepPattern("*.txt"))
	if _, err := s.Persist(make([]byte, 50), "jpeg"); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "drop.log")); !os.IsNotExist(err) {
		t.Error("drop.log should be evicted")
	}
}

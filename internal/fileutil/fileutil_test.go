package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jobvault/internal/fileutil"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "resume.pdf")
	dst := filepath.Join(dir, "out", "resume.pdf")
	payload := []byte("fake pdf bytes")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}
	copied, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(copied) != string(payload) {
		t.Fatalf("destination content mismatch: %q", copied)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := fileutil.CopyFileVerified(filepath.Join(dir, "missing"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyFilePreserveKeepsModTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cover_letter.docx")
	dst := filepath.Join(dir, "migrated.docx")
	if err := os.WriteFile(src, []byte("letter"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	stamp := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if err := fileutil.CopyFilePreserve(src, dst); err != nil {
		t.Fatalf("CopyFilePreserve: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat destination: %v", err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Fatalf("mod time not preserved: got %v want %v", info.ModTime(), stamp)
	}
}

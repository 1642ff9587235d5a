package testsupport

import (
	"path/filepath"
	"testing"

	"jobvault/internal/config"
)

// NewConfig returns a validated configuration rooted in a per-test temp
// directory. Source snapshots are disabled until a test seeds them.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.TargetDB = filepath.Join(base, "jobvault.db")
	cfg.Paths.ContentDir = filepath.Join(base, "content")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Sources.Jobtrack = config.Source{
		Enabled:    true,
		Snapshot:   filepath.Join(base, "jobtrack.db"),
		UploadsDir: filepath.Join(base, "jobtrack-uploads"),
	}
	cfg.Sources.Contractflow = config.Source{
		Enabled:    true,
		Snapshot:   filepath.Join(base, "contractflow.db"),
		UploadsDir: filepath.Join(base, "contractflow-files"),
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

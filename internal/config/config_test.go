package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobvault/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobvault.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
[paths]
target_db = "/tmp/jobvault-test/store.db"
content_dir = "/tmp/jobvault-test/content"

[sources.jobtrack]
enabled = true
snapshot = "/tmp/jobvault-test/jobtrack.db"

[dedupe]
title_threshold = 0.9
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Dedupe.TitleThreshold != 0.9 {
		t.Fatalf("title threshold override lost: %v", cfg.Dedupe.TitleThreshold)
	}
	if cfg.Dedupe.CompanyThreshold != 0.85 {
		t.Fatalf("company threshold default lost: %v", cfg.Dedupe.CompanyThreshold)
	}
	if cfg.Dedupe.Clustering != "greedy" {
		t.Fatalf("clustering default lost: %q", cfg.Dedupe.Clustering)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("logging defaults lost: %+v", cfg.Logging)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, _, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Dedupe.SalaryPolicy != "prefer-larger" {
		t.Fatalf("unexpected default salary policy: %q", cfg.Dedupe.SalaryPolicy)
	}
}

func TestLoadRejectsBadClustering(t *testing.T) {
	path := writeConfig(t, `
[dedupe]
clustering = "agglomerative"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unknown clustering strategy")
	} else if !strings.Contains(err.Error(), "clustering") {
		t.Fatalf("error should name the bad field: %v", err)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	path := writeConfig(t, `
[dedupe]
company_threshold = 1.5
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for out-of-range threshold")
	}
}

func TestEnabledSourcesOrder(t *testing.T) {
	cfg := config.Default()
	got := cfg.EnabledSources()
	if len(got) != 2 || got[0] != "jobtrack" || got[1] != "contractflow" {
		t.Fatalf("unexpected source order: %v", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	// The sample must itself load cleanly.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

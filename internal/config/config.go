package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains target store and directory configuration.
type Paths struct {
	TargetDB   string `toml:"target_db"`
	ContentDir string `toml:"content_dir"`
	LogDir     string `toml:"log_dir"`
}

// Source describes one legacy system to migrate from.
type Source struct {
	Enabled    bool   `toml:"enabled"`
	Snapshot   string `toml:"snapshot"`
	UploadsDir string `toml:"uploads_dir"`
	// StatusMap optionally points at a YAML file overriding the built-in
	// status mapping table for this source.
	StatusMap string `toml:"status_map"`
}

// Sources contains per-legacy-system configuration.
type Sources struct {
	Jobtrack     Source `toml:"jobtrack"`
	Contractflow Source `toml:"contractflow"`
}

// Dedupe contains deduplication thresholds and strategy selection.
type Dedupe struct {
	Enabled          bool    `toml:"enabled"`
	CompanyThreshold float64 `toml:"company_threshold"`
	TitleThreshold   float64 `toml:"title_threshold"`
	// Clustering selects the grouping pass: "greedy" (single-pass,
	// non-transitive) or "union-find" (transitive closure).
	Clustering string `toml:"clustering"`
	// SalaryPolicy selects how conflicting salary bounds merge:
	// "prefer-larger", "prefer-primary", or "prefer-recent".
	SalaryPolicy string `toml:"salary_policy"`
}

// Import contains importer behavior toggles.
type Import struct {
	CreateDefaultUser bool   `toml:"create_default_user"`
	DefaultUserEmail  string `toml:"default_user_email"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for jobvault.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Sources Sources `toml:"sources"`
	Dedupe  Dedupe  `toml:"dedupe"`
	Import  Import  `toml:"import"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/jobvault/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("jobvault.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a migration run writes into.
// Source directories are never created; they are read-only inputs.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ContentDir, c.Paths.LogDir, filepath.Dir(c.Paths.TargetDB)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the lock file guarding against concurrent migration runs
// targeting the same store.
func (c *Config) LockPath() string {
	return c.Paths.TargetDB + ".lock"
}

// LogFilePath returns the migration log file location, or empty when no log
// directory is configured.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "jobvault.log")
}

// EnabledSources lists the source tags enabled for migration, in the fixed
// processing order.
func (c *Config) EnabledSources() []string {
	var enabled []string
	if c.Sources.Jobtrack.Enabled {
		enabled = append(enabled, "jobtrack")
	}
	if c.Sources.Contractflow.Enabled {
		enabled = append(enabled, "contractflow")
	}
	return enabled
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

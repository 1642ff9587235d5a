package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSource("sources.jobtrack", &c.Sources.Jobtrack); err != nil {
		return err
	}
	if err := c.normalizeSource("sources.contractflow", &c.Sources.Contractflow); err != nil {
		return err
	}
	c.normalizeDedupe()
	c.normalizeLogging()
	c.Import.DefaultUserEmail = strings.ToLower(strings.TrimSpace(c.Import.DefaultUserEmail))
	if c.Import.DefaultUserEmail == "" {
		c.Import.DefaultUserEmail = defaultUserEmail
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.TargetDB, err = expandPath(c.Paths.TargetDB); err != nil {
		return fmt.Errorf("paths.target_db: %w", err)
	}
	if c.Paths.ContentDir, err = expandPath(c.Paths.ContentDir); err != nil {
		return fmt.Errorf("paths.content_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSource(section string, source *Source) error {
	var err error
	if source.Snapshot = strings.TrimSpace(source.Snapshot); source.Snapshot != "" {
		if source.Snapshot, err = expandPath(source.Snapshot); err != nil {
			return fmt.Errorf("%s.snapshot: %w", section, err)
		}
	}
	if source.UploadsDir = strings.TrimSpace(source.UploadsDir); source.UploadsDir != "" {
		if source.UploadsDir, err = expandPath(source.UploadsDir); err != nil {
			return fmt.Errorf("%s.uploads_dir: %w", section, err)
		}
	}
	if source.StatusMap = strings.TrimSpace(source.StatusMap); source.StatusMap != "" {
		if source.StatusMap, err = expandPath(source.StatusMap); err != nil {
			return fmt.Errorf("%s.status_map: %w", section, err)
		}
	}
	return nil
}

func (c *Config) normalizeDedupe() {
	if c.Dedupe.CompanyThreshold == 0 {
		c.Dedupe.CompanyThreshold = defaultCompanyThreshold
	}
	if c.Dedupe.TitleThreshold == 0 {
		c.Dedupe.TitleThreshold = defaultTitleThreshold
	}
	c.Dedupe.Clustering = strings.ToLower(strings.TrimSpace(c.Dedupe.Clustering))
	if c.Dedupe.Clustering == "" {
		c.Dedupe.Clustering = defaultClustering
	}
	c.Dedupe.SalaryPolicy = strings.ToLower(strings.TrimSpace(c.Dedupe.SalaryPolicy))
	if c.Dedupe.SalaryPolicy == "" {
		c.Dedupe.SalaryPolicy = defaultSalaryPolicy
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

var validClusterings = map[string]struct{}{
	"greedy":     {},
	"union-find": {},
}

var validSalaryPolicies = map[string]struct{}{
	"prefer-larger":  {},
	"prefer-primary": {},
	"prefer-recent":  {},
}

var validLogFormats = map[string]struct{}{
	"console": {},
	"json":    {},
}

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.TargetDB) == "" {
		problems = append(problems, "paths.target_db is required")
	}
	if strings.TrimSpace(c.Paths.ContentDir) == "" {
		problems = append(problems, "paths.content_dir is required")
	}

	if c.Dedupe.CompanyThreshold <= 0 || c.Dedupe.CompanyThreshold > 1 {
		problems = append(problems, fmt.Sprintf("dedupe.company_threshold must be in (0, 1], got %v", c.Dedupe.CompanyThreshold))
	}
	if c.Dedupe.TitleThreshold <= 0 || c.Dedupe.TitleThreshold > 1 {
		problems = append(problems, fmt.Sprintf("dedupe.title_threshold must be in (0, 1], got %v", c.Dedupe.TitleThreshold))
	}
	if _, ok := validClusterings[c.Dedupe.Clustering]; !ok {
		problems = append(problems, fmt.Sprintf("dedupe.clustering must be greedy or union-find, got %q", c.Dedupe.Clustering))
	}
	if _, ok := validSalaryPolicies[c.Dedupe.SalaryPolicy]; !ok {
		problems = append(problems, fmt.Sprintf("dedupe.salary_policy must be prefer-larger, prefer-primary, or prefer-recent, got %q", c.Dedupe.SalaryPolicy))
	}

	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		problems = append(problems, fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		problems = append(problems, fmt.Sprintf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}

package config

const (
	defaultTargetDB         = "~/.local/share/jobvault/jobvault.db"
	defaultContentDir       = "~/.local/share/jobvault/content"
	defaultLogDir           = "~/.local/share/jobvault/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultCompanyThreshold = 0.85
	defaultTitleThreshold   = 0.80
	defaultClustering       = "greedy"
	defaultSalaryPolicy     = "prefer-larger"
	defaultUserEmail        = "imported@jobvault.local"
)

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			TargetDB:   defaultTargetDB,
			ContentDir: defaultContentDir,
			LogDir:     defaultLogDir,
		},
		Sources: Sources{
			Jobtrack:     Source{Enabled: true},
			Contractflow: Source{Enabled: true},
		},
		Dedupe: Dedupe{
			Enabled:          true,
			CompanyThreshold: defaultCompanyThreshold,
			TitleThreshold:   defaultTitleThreshold,
			Clustering:       defaultClustering,
			SalaryPolicy:     defaultSalaryPolicy,
		},
		Import: Import{
			CreateDefaultUser: true,
			DefaultUserEmail:  defaultUserEmail,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

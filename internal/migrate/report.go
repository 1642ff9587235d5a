package migrate

import (
	"time"
)

// SourceReport accumulates counters for one legacy source.
type SourceReport struct {
	JobsExtracted     int      `json:"jobs_extracted"`
	UsersExtracted    int      `json:"users_extracted"`
	FilesMigrated     int      `json:"files_migrated"`
	UsersImported     int      `json:"users_imported"`
	UsersMerged       int      `json:"users_merged"`
	JobsImported      int      `json:"jobs_imported"`
	DocumentsImported int      `json:"documents_imported"`
	Skipped           bool     `json:"skipped"`
	Errors            []string `json:"errors,omitempty"`
}

// DedupeReport accumulates counters for the deduplication stage.
type DedupeReport struct {
	Ran               bool     `json:"ran"`
	ClustersDetected  int      `json:"clusters_detected"`
	DuplicatesFound   int      `json:"duplicates_found"`
	DuplicatesMerged  int      `json:"duplicates_merged"`
	ConflictsResolved int      `json:"conflicts_resolved"`
	Errors            []string `json:"errors,omitempty"`
}

// Report is the full outcome of one migration run.
type Report struct {
	RunID      string                   `json:"run_id"`
	DryRun     bool                     `json:"dry_run"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	Sources    map[string]*SourceReport `json:"sources"`
	Dedupe     DedupeReport             `json:"dedupe"`
	Validation *ValidationReport        `json:"validation,omitempty"`
	Errors     []string                 `json:"errors,omitempty"`
}

func newReport(runID string, dryRun bool, startedAt time.Time) *Report {
	return &Report{
		RunID:     runID,
		DryRun:    dryRun,
		StartedAt: startedAt,
		Sources:   map[string]*SourceReport{},
	}
}

// Source returns the per-source report, creating it on first use.
func (r *Report) Source(tag string) *SourceReport {
	if report, ok := r.Sources[tag]; ok {
		return report
	}
	report := &SourceReport{}
	r.Sources[tag] = report
	return report
}

// TotalErrors counts errors across all stages.
func (r *Report) TotalErrors() int {
	total := len(r.Errors) + len(r.Dedupe.Errors)
	for _, source := range r.Sources {
		total += len(source.Errors)
	}
	return total
}

// TotalJobsImported sums jobs imported across sources.
func (r *Report) TotalJobsImported() int {
	total := 0
	for _, source := range r.Sources {
		total += source.JobsImported
	}
	return total
}

// Duration returns the run's wall-clock duration.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

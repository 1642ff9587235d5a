package extract

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"jobvault/internal/canonical"
	"jobvault/internal/config"
	"jobvault/internal/logging"
	"jobvault/internal/normalize"
	"jobvault/internal/services"
)

// jobtrackStatuses is the built-in mapping for the jobtrack tracker. The
// tracker let users type free-form statuses, so the table covers the labels
// its own UI suggested plus the spellings observed in real exports.
var jobtrackStatuses = normalize.NewStatusMapper(map[string]canonical.Status{
	"saved":               canonical.StatusNotApplied,
	"bookmarked":          canonical.StatusNotApplied,
	"interested":          canonical.StatusNotApplied,
	"not applied":         canonical.StatusNotApplied,
	"applied":             canonical.StatusApplied,
	"phone screen":        canonical.StatusPhoneScreen,
	"phone_screen":        canonical.StatusPhoneScreen,
	"screening":           canonical.StatusPhoneScreen,
	"interview":           canonical.StatusInterviewScheduled,
	"interview scheduled": canonical.StatusInterviewScheduled,
	"interview_scheduled": canonical.StatusInterviewScheduled,
	"interviewed":         canonical.StatusInterviewed,
	"onsite":              canonical.StatusInterviewed,
	"offer":               canonical.StatusOfferReceived,
	"offer received":      canonical.StatusOfferReceived,
	"offer_received":      canonical.StatusOfferReceived,
	"rejected":            canonical.StatusRejected,
	"declined":            canonical.StatusRejected,
	"withdrawn":           canonical.StatusWithdrawn,
	"archived":            canonical.StatusArchived,
})

// Jobtrack extracts from the single-user jobtrack SQLite snapshot. Jobs
// live in a flat jobs table with notes and contacts hanging off job_id; the
// tracker had no account table, so the extractor emits no users.
type Jobtrack struct {
	snapshotPath string
	statuses     *normalize.StatusMapper
	logger       *slog.Logger
}

// NewJobtrack builds the jobtrack extractor, applying any status-map
// overrides configured for the source.
func NewJobtrack(src config.Source, logger *slog.Logger) (*Jobtrack, error) {
	statuses := jobtrackStatuses
	if src.StatusMap != "" {
		overrides, err := normalize.LoadStatusTable(src.StatusMap)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "extract", string(canonical.SourceJobtrack), "load status map", err)
		}
		statuses = statuses.Merge(overrides)
	}
	return &Jobtrack{
		snapshotPath: src.Snapshot,
		statuses:     statuses,
		logger:       logging.NewComponentLogger(logger, "extract.jobtrack"),
	}, nil
}

func (e *Jobtrack) Source() canonical.Source { return canonical.SourceJobtrack }

func (e *Jobtrack) Extract(ctx context.Context) (*Result, error) {
	db, err := openSnapshot(e.Source(), e.snapshotPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	result := &Result{}

	jobsProbe, err := probeTable(ctx, db, "jobs")
	if err != nil {
		return nil, err
	}
	if !jobsProbe.exists() {
		return nil, services.Wrap(services.ErrValidation, "extract", string(e.Source()), "snapshot has no jobs table", nil)
	}
	columns, err := selectColumns(e.Source(), "jobs", jobsProbe,
		[]string{"id", "title", "company"},
		[]string{"location", "description", "url", "salary", "status", "requirements", "tags", "date_posted", "date_added", "date_applied"})
	if err != nil {
		return nil, err
	}

	notes, err := e.childText(ctx, db, "notes", "content")
	if err != nil {
		return nil, err
	}
	contacts, err := e.contactsByJob(ctx, db)
	if err != nil {
		return nil, err
	}

	err = queryTable(ctx, db, "jobs", columns, "id", func(row map[string]string) error {
		job, rerr := e.mapJob(row, notes, contacts)
		if rerr != nil {
			result.recordError("jobtrack job %s: %v", rowIdentifier(row), rerr)
			return nil
		}
		result.Jobs = append(result.Jobs, job)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("extraction finished",
		logging.Int("jobs", len(result.Jobs)),
		logging.Int("record_errors", len(result.Errors)))
	return result, nil
}

func (e *Jobtrack) mapJob(row map[string]string, notes map[string][]string, contacts map[string][]map[string]any) (canonical.Job, error) {
	id := row["id"]
	if id == "" {
		return canonical.Job{}, fmt.Errorf("missing id")
	}

	job := canonical.Job{
		OriginalID:     id,
		Title:          normalize.DisplayCase(row["title"]),
		Company:        normalize.DisplayCase(row["company"]),
		Location:       row["location"],
		Description:    row["description"],
		ApplicationURL: row["url"],
		Status:         e.statuses.Map(row["status"]),
		Source:         canonical.SourceJobtrack,
		Tags:           splitTags(row["tags"]),
	}

	if raw := row["salary"]; raw != "" {
		job.SalaryMin, job.SalaryMax = normalize.ParseSalary(raw)
		if job.SalaryMin != nil || job.SalaryMax != nil {
			job.Currency = currencyForSymbol(raw)
		}
	}
	if posted, ok := normalize.ParseDate(row["date_posted"], normalize.DefaultDateFormats); ok {
		job.DatePosted = &posted
	}
	if added, ok := normalize.ParseDate(row["date_added"], normalize.DefaultDateFormats); ok {
		job.DateAdded = &added
	}
	if applied, ok := normalize.ParseDate(row["date_applied"], normalize.DefaultDateFormats); ok {
		job.DateApplied = &applied
	}
	job.Requirements = normalize.ExtractRequirements(job.Description, row["requirements"])

	if texts := notes[id]; len(texts) > 0 {
		job.Notes = strings.Join(texts, "\n\n")
	}
	if people := contacts[id]; len(people) > 0 {
		if job.Metadata == nil {
			job.Metadata = map[string]any{}
		}
		job.Metadata["contacts"] = people
	}
	return job, nil
}

// childText collects per-job text rows from an optional child table keyed
// by job_id. Absent tables yield an empty map.
func (e *Jobtrack) childText(ctx context.Context, db *sql.DB, table, textColumn string) (map[string][]string, error) {
	probe, err := probeTable(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if !probe.exists() || !probe.has("job_id") || !probe.has(textColumn) {
		return map[string][]string{}, nil
	}
	orderBy := ""
	if probe.has("id") {
		orderBy = "id"
	}
	out := map[string][]string{}
	err = queryTable(ctx, db, table, []string{"job_id", textColumn}, orderBy, func(row map[string]string) error {
		if row["job_id"] != "" && row[textColumn] != "" {
			out[row["job_id"]] = append(out[row["job_id"]], row[textColumn])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Jobtrack) contactsByJob(ctx context.Context, db *sql.DB) (map[string][]map[string]any, error) {
	probe, err := probeTable(ctx, db, "contacts")
	if err != nil {
		return nil, err
	}
	if !probe.exists() || !probe.has("job_id") {
		return map[string][]map[string]any{}, nil
	}
	columns := []string{"job_id"}
	for _, col := range []string{"name", "email", "role"} {
		if probe.has(col) {
			columns = append(columns, col)
		}
	}
	orderBy := ""
	if probe.has("id") {
		orderBy = "id"
	}
	out := map[string][]map[string]any{}
	err = queryTable(ctx, db, "contacts", columns, orderBy, func(row map[string]string) error {
		jobID := row["job_id"]
		if jobID == "" {
			return nil
		}
		contact := map[string]any{}
		for _, col := range []string{"name", "email", "role"} {
			if value := row[col]; value != "" {
				contact[col] = value
			}
		}
		if len(contact) > 0 {
			out[jobID] = append(out[jobID], contact)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func rowIdentifier(row map[string]string) string {
	if id := row["id"]; id != "" {
		return id
	}
	return "(no id)"
}

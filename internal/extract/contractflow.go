package extract

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"jobvault/internal/canonical"
	"jobvault/internal/config"
	"jobvault/internal/logging"
	"jobvault/internal/normalize"
	"jobvault/internal/services"
)

// contractflowStatuses maps the contract lifecycle onto application
// statuses: a signed contract is the closest analogue of an accepted offer,
// a declined or expired one of a rejection.
var contractflowStatuses = normalize.NewStatusMapper(map[string]canonical.Status{
	"draft":        canonical.StatusNotApplied,
	"sent":         canonical.StatusApplied,
	"under_review": canonical.StatusPhoneScreen,
	"negotiating":  canonical.StatusInterviewScheduled,
	"signed":       canonical.StatusOfferReceived,
	"declined":     canonical.StatusRejected,
	"expired":      canonical.StatusArchived,
})

// hourlyRateSuffixes are stripped before salary parsing; the contract tool
// recorded rates as free text like "$85/hr".
var hourlyRateSuffixes = []string{"/hr", "/hour", "per hour", "hourly"}

// Contractflow extracts contracts from the contractflow snapshot, mapping
// each contract to a canonical job record owned by the contract's user.
// Analysis history, including per-agent execution names, rides along as
// metadata so nothing the tool computed is lost in migration.
type Contractflow struct {
	snapshotPath string
	statuses     *normalize.StatusMapper
	logger       *slog.Logger
}

// NewContractflow builds the contractflow extractor, applying any
// status-map overrides configured for the source.
func NewContractflow(src config.Source, logger *slog.Logger) (*Contractflow, error) {
	statuses := contractflowStatuses
	if src.StatusMap != "" {
		overrides, err := normalize.LoadStatusTable(src.StatusMap)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "extract", string(canonical.SourceContractflow), "load status map", err)
		}
		statuses = statuses.Merge(overrides)
	}
	return &Contractflow{
		snapshotPath: src.Snapshot,
		statuses:     statuses,
		logger:       logging.NewComponentLogger(logger, "extract.contractflow"),
	}, nil
}

func (e *Contractflow) Source() canonical.Source { return canonical.SourceContractflow }

func (e *Contractflow) Extract(ctx context.Context) (*Result, error) {
	db, err := openSnapshot(e.Source(), e.snapshotPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	result := &Result{}

	if err := e.extractUsers(ctx, db, result); err != nil {
		return nil, err
	}

	analyses, err := e.analysisHistory(ctx, db)
	if err != nil {
		return nil, err
	}

	contractsProbe, err := probeTable(ctx, db, "contracts")
	if err != nil {
		return nil, err
	}
	if !contractsProbe.exists() {
		return nil, services.Wrap(services.ErrValidation, "extract", string(e.Source()), "snapshot has no contracts table", nil)
	}
	columns, err := selectColumns(e.Source(), "contracts", contractsProbe,
		[]string{"id"},
		[]string{"user_id", "client_company", "role_title", "description", "rate", "status", "created_at", "signed_at"})
	if err != nil {
		return nil, err
	}

	err = queryTable(ctx, db, "contracts", columns, "id", func(row map[string]string) error {
		job, rerr := e.mapContract(row, analyses)
		if rerr != nil {
			result.recordError("contractflow contract %s: %v", rowIdentifier(row), rerr)
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
		logging.Int("users", len(result.Users)),
		logging.Int("record_errors", len(result.Errors)))
	return result, nil
}

func (e *Contractflow) extractUsers(ctx context.Context, db *sql.DB, result *Result) error {
	probe, err := probeTable(ctx, db, "users")
	if err != nil {
		return err
	}
	if !probe.exists() {
		return nil
	}
	columns, err := selectColumns(e.Source(), "users", probe,
		[]string{"id", "email"},
		[]string{"full_name", "profile"})
	if err != nil {
		return err
	}
	return queryTable(ctx, db, "users", columns, "id", func(row map[string]string) error {
		if row["id"] == "" {
			result.recordError("contractflow user %s: missing id", rowIdentifier(row))
			return nil
		}
		if row["email"] == "" {
			result.recordError("contractflow user %s: missing email", row["id"])
			return nil
		}
		user := canonical.User{
			OriginalID: row["id"],
			Email:      row["email"],
			FullName:   normalize.DisplayCase(row["full_name"]),
			Source:     canonical.SourceContractflow,
			Profile:    decodeJSONObject(row["profile"]),
		}
		result.Users = append(result.Users, user)
		return nil
	})
}

func (e *Contractflow) mapContract(row map[string]string, analyses map[string][]map[string]any) (canonical.Job, error) {
	id := row["id"]
	if id == "" {
		return canonical.Job{}, fmt.Errorf("missing id")
	}

	job := canonical.Job{
		OriginalID:  id,
		Title:       normalize.DisplayCase(row["role_title"]),
		Company:     normalize.DisplayCase(row["client_company"]),
		Description: row["description"],
		Status:      e.statuses.Map(row["status"]),
		Source:      canonical.SourceContractflow,
		OwnerRef:    row["user_id"],
	}
	job.AddTag("contract")

	if raw := row["rate"]; raw != "" {
		cleaned, hourly := stripRateSuffix(raw)
		job.SalaryMin, job.SalaryMax = normalize.ParseSalary(cleaned)
		if job.SalaryMin != nil || job.SalaryMax != nil {
			job.Currency = currencyForSymbol(raw)
			if hourly {
				job.Metadata = ensureMetadata(job.Metadata)
				job.Metadata["rate_unit"] = "hourly"
			}
		}
	}
	if created, ok := normalize.ParseDate(row["created_at"], normalize.DefaultDateFormats); ok {
		job.DateAdded = &created
	}
	if signed, ok := normalize.ParseDate(row["signed_at"], normalize.DefaultDateFormats); ok {
		job.DateApplied = &signed
	}
	job.Requirements = normalize.ExtractRequirements(job.Description, "")

	if history := analyses[id]; len(history) > 0 {
		job.Metadata = ensureMetadata(job.Metadata)
		job.Metadata["analysis_history"] = history
	}
	return job, nil
}

// analysisHistory joins analyses with their agent executions, keyed by
// contract id. Both tables are optional.
func (e *Contractflow) analysisHistory(ctx context.Context, db *sql.DB) (map[string][]map[string]any, error) {
	probe, err := probeTable(ctx, db, "analyses")
	if err != nil {
		return nil, err
	}
	if !probe.exists() || !probe.has("id") || !probe.has("contract_id") {
		return map[string][]map[string]any{}, nil
	}
	columns := []string{"id", "contract_id"}
	for _, col := range []string{"summary", "risk_score", "created_at"} {
		if probe.has(col) {
			columns = append(columns, col)
		}
	}

	agents, err := e.agentsByAnalysis(ctx, db)
	if err != nil {
		return nil, err
	}

	history := map[string][]map[string]any{}
	err = queryTable(ctx, db, "analyses", columns, "id", func(row map[string]string) error {
		contractID := row["contract_id"]
		if contractID == "" {
			return nil
		}
		entry := map[string]any{}
		if summary := row["summary"]; summary != "" {
			entry["summary"] = summary
		}
		if raw := row["risk_score"]; raw != "" {
			if score, err := strconv.ParseFloat(raw, 64); err == nil {
				entry["risk_score"] = score
			}
		}
		if created := row["created_at"]; created != "" {
			entry["created_at"] = created
		}
		if names := agents[row["id"]]; len(names) > 0 {
			entry["agents"] = names
		}
		history[contractID] = append(history[contractID], entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (e *Contractflow) agentsByAnalysis(ctx context.Context, db *sql.DB) (map[string][]string, error) {
	probe, err := probeTable(ctx, db, "agent_executions")
	if err != nil {
		return nil, err
	}
	if !probe.exists() || !probe.has("analysis_id") || !probe.has("agent_name") {
		return map[string][]string{}, nil
	}
	orderBy := ""
	if probe.has("id") {
		orderBy = "id"
	}
	out := map[string][]string{}
	err = queryTable(ctx, db, "agent_executions", []string{"analysis_id", "agent_name"}, orderBy, func(row map[string]string) error {
		if row["analysis_id"] != "" && row["agent_name"] != "" {
			out[row["analysis_id"]] = append(out[row["analysis_id"]], row["agent_name"])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func stripRateSuffix(raw string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, suffix := range hourlyRateSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return strings.TrimSpace(raw[:len(lower)-len(suffix)]), true
		}
	}
	return raw, false
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}

func decodeJSONObject(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

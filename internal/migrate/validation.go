package migrate

import (
	"context"
	"math"
	"time"

	"jobvault/internal/canonical"
	"jobvault/internal/store"
)

// ValidationReport summarizes what the target store holds after a run,
// with per-field data quality expressed as percentage coverage.
type ValidationReport struct {
	GeneratedAt  time.Time                `json:"generated_at"`
	Totals       store.Totals             `json:"totals"`
	JobsByStatus map[canonical.Status]int `json:"jobs_by_status"`
	JobsBySource map[string]int           `json:"jobs_by_source"`
	DataQuality  map[string]float64       `json:"data_quality"`
}

// BuildValidationReport queries the target store and computes coverage
// percentages, rounded to one decimal place.
func BuildValidationReport(ctx context.Context, st *store.Store) (*ValidationReport, error) {
	totals, err := st.Totals(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := st.JobCountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	bySource, err := st.JobCountsBySource(ctx)
	if err != nil {
		return nil, err
	}
	coverage, err := st.JobFieldCoverage(ctx)
	if err != nil {
		return nil, err
	}

	return &ValidationReport{
		GeneratedAt:  time.Now().UTC(),
		Totals:       totals,
		JobsByStatus: byStatus,
		JobsBySource: bySource,
		DataQuality: map[string]float64{
			"description":  percentage(coverage.Description, totals.Jobs),
			"salary":       percentage(coverage.Salary, totals.Jobs),
			"url":          percentage(coverage.URL, totals.Jobs),
			"requirements": percentage(coverage.Requirements, totals.Jobs),
			"tags":         percentage(coverage.Tags, totals.Jobs),
		},
	}, nil
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

package store

import (
	"context"
	"fmt"

	"jobvault/internal/canonical"
)

// Totals aggregates entity counts across the store.
type Totals struct {
	Jobs         int
	Users        int
	Applications int
	Documents    int
}

// Totals returns global entity counts.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var totals Totals
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM jobs`, &totals.Jobs},
		{`SELECT COUNT(*) FROM users`, &totals.Users},
		{`SELECT COUNT(*) FROM applications`, &totals.Applications},
		{`SELECT COUNT(*) FROM documents`, &totals.Documents},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return Totals{}, fmt.Errorf("store totals: %w", err)
		}
	}
	return totals, nil
}

// JobCountsByStatus returns job counts grouped by canonical status.
func (s *Store) JobCountsByStatus(ctx context.Context) (map[canonical.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job counts by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[canonical.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[canonical.Status(status)] = count
	}
	return counts, rows.Err()
}

// JobCountsBySource returns job counts grouped by provenance tag.
func (s *Store) JobCountsBySource(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(1) FROM jobs GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("job counts by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, err
		}
		counts[source] = count
	}
	return counts, rows.Err()
}

// FieldCoverage counts jobs carrying each optional data-quality field.
type FieldCoverage struct {
	Description  int
	Salary       int
	URL          int
	Requirements int
	Tags         int
}

// JobFieldCoverage computes how many jobs carry each optional field,
// feeding the validation report's data-quality percentages.
func (s *Store) JobFieldCoverage(ctx context.Context) (FieldCoverage, error) {
	var coverage FieldCoverage
	row := s.db.QueryRowContext(ctx, `
        SELECT
            COUNT(CASE WHEN length(description) > 0 THEN 1 END),
            COUNT(CASE WHEN salary_min IS NOT NULL OR salary_max IS NOT NULL THEN 1 END),
            COUNT(CASE WHEN length(application_url) > 0 THEN 1 END),
            COUNT(CASE WHEN requirements_json IS NOT NULL AND length(requirements_json) > 0 THEN 1 END),
            COUNT(CASE WHEN tags_json IS NOT NULL AND length(tags_json) > 0 THEN 1 END)
        FROM jobs`)
	if err := row.Scan(&coverage.Description, &coverage.Salary, &coverage.URL, &coverage.Requirements, &coverage.Tags); err != nil {
		return FieldCoverage{}, fmt.Errorf("job field coverage: %w", err)
	}
	return coverage, nil
}

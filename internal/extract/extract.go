package extract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"jobvault/internal/canonical"
	"jobvault/internal/services"
)

// Extractor reads one legacy system's snapshot into canonical records.
type Extractor interface {
	// Source identifies the legacy system this extractor reads.
	Source() canonical.Source
	// Extract reads the snapshot. Per-record failures land in the result's
	// Errors list; only snapshot-level problems surface as an error.
	Extract(ctx context.Context) (*Result, error)
}

// Result carries everything one extraction pass produced.
type Result struct {
	Jobs   []canonical.Job
	Users  []canonical.User
	Errors []string
}

func (r *Result) recordError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// openSnapshot opens a legacy database for reading. A missing file maps to
// the source-unavailable marker so the caller can continue with an empty
// result.
func openSnapshot(source canonical.Source, path string) (*sql.DB, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "extract", string(source), "snapshot path not configured", nil)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrSourceUnavailable, "extract", string(source),
				fmt.Sprintf("snapshot %s does not exist", path), nil)
		}
		return nil, fmt.Errorf("stat snapshot %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	return db, nil
}

// tableProbe records which columns actually exist in a legacy table.
type tableProbe map[string]bool

// probeTable inspects a legacy table. A table absent from the snapshot
// yields an empty probe, not an error; old deployments dropped and renamed
// tables freely.
func probeTable(ctx context.Context, db *sql.DB, table string) (tableProbe, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("probe table %s: %w", table, err)
	}
	defer rows.Close()

	probe := tableProbe{}
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    sql.NullString
			notNull    int
			defaultVal sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &primaryKey); err != nil {
			return nil, fmt.Errorf("probe table %s: %w", table, err)
		}
		probe[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("probe table %s: %w", table, err)
	}
	return probe, nil
}

func (p tableProbe) exists() bool { return len(p) > 0 }

func (p tableProbe) has(column string) bool { return p[column] }

// selectColumns builds the column list an extractor may safely select.
// Missing required columns abort the source; missing optional columns are
// simply skipped and their canonical fields stay empty.
func selectColumns(source canonical.Source, table string, probe tableProbe, required, optional []string) ([]string, error) {
	var missing []string
	for _, col := range required {
		if !probe.has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrValidation, "extract", string(source),
			fmt.Sprintf("table %s missing required columns %s", table, strings.Join(missing, ", ")), nil)
	}
	selected := append([]string(nil), required...)
	for _, col := range optional {
		if probe.has(col) {
			selected = append(selected, col)
		}
	}
	return selected, nil
}

// queryTable runs a SELECT over the probed columns and hands each row to fn
// as a column-name map. Values arrive as strings regardless of the legacy
// declared type; numeric fields are re-parsed by the caller.
func queryTable(ctx context.Context, db *sql.DB, table string, columns []string, orderBy string, fn func(row map[string]string) error) error {
	query := fmt.Sprintf(`SELECT %s FROM %q`, strings.Join(quoteAll(columns), ", "), table)
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	values := make([]sql.NullString, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if values[i].Valid {
				row[col] = strings.TrimSpace(values[i].String)
			}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

func quoteAll(columns []string) []string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	return quoted
}

// currencyForSymbol infers a currency code from the raw salary text.
func currencyForSymbol(raw string) string {
	switch {
	case strings.ContainsRune(raw, '€'):
		return "EUR"
	case strings.ContainsRune(raw, '£'):
		return "GBP"
	case strings.ContainsRune(raw, '¥'):
		return "JPY"
	case strings.ContainsRune(raw, '$'):
		return "USD"
	default:
		return ""
	}
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

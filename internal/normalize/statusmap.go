package normalize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobvault/internal/canonical"
)

// StatusMapper translates a source's native status labels into canonical
// statuses via table lookup. Unrecognized labels fall back to not_applied:
// an unknown status never fails a record, it only loses information.
type StatusMapper struct {
	table map[string]canonical.Status
}

// NewStatusMapper builds a mapper from a lookup table. Keys are matched
// case-insensitively after trimming.
func NewStatusMapper(table map[string]canonical.Status) *StatusMapper {
	normalized := make(map[string]canonical.Status, len(table))
	for key, status := range table {
		normalized[strings.ToLower(strings.TrimSpace(key))] = status
	}
	return &StatusMapper{table: normalized}
}

// Map returns the canonical status for a source label, defaulting to
// not_applied for unknown values.
func (m *StatusMapper) Map(raw string) canonical.Status {
	if m != nil {
		if status, ok := m.table[strings.ToLower(strings.TrimSpace(raw))]; ok {
			return status
		}
	}
	return canonical.StatusNotApplied
}

// Merge returns a mapper whose table is the receiver's table overlaid with
// the entries from overrides. The receiver is not modified.
func (m *StatusMapper) Merge(overrides map[string]canonical.Status) *StatusMapper {
	combined := make(map[string]canonical.Status, len(m.table)+len(overrides))
	for key, status := range m.table {
		combined[key] = status
	}
	for key, status := range overrides {
		combined[strings.ToLower(strings.TrimSpace(key))] = status
	}
	return &StatusMapper{table: combined}
}

// LoadStatusTable reads a YAML file mapping source status labels to
// canonical statuses. Unknown canonical values are rejected so a typo in an
// override file surfaces at startup rather than as silent data loss.
func LoadStatusTable(path string) (map[string]canonical.Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read status map: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse status map: %w", err)
	}

	table := make(map[string]canonical.Status, len(raw))
	for key, value := range raw {
		status, ok := canonical.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("status map %s: %q maps to unknown canonical status %q", path, key, value)
		}
		table[key] = status
	}
	return table, nil
}

package store

import (
	"encoding/json"
	"time"

	"jobvault/internal/canonical"
)

// User is a persisted unified account.
type User struct {
	ID        int64
	Email     string
	FullName  string
	Source    string
	Profile   map[string]any
	Settings  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Job is a persisted job record owned by exactly one user.
type Job struct {
	ID             int64
	UserID         int64
	OriginalID     string
	Title          string
	Company        string
	Location       string
	Description    string
	ApplicationURL string
	SalaryMin      *float64
	SalaryMax      *float64
	Currency       string
	Requirements   canonical.Requirements
	Status         canonical.Status
	Source         string
	DatePosted     *time.Time
	DateAdded      *time.Time
	DateApplied    *time.Time
	Tags           []string
	Metadata       map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Application links a job to a user with application state. The one
// application per (job, user) pair invariant is maintained by the
// deduplication merge step, not by a schema constraint.
type Application struct {
	ID        int64
	JobID     int64
	UserID    int64
	Status    canonical.Status
	AppliedAt *time.Time
	Notes     string
	Documents []string
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document is a migrated artifact stored in the unified content directory.
type Document struct {
	ID               int64
	UserID           int64
	Filename         string
	OriginalFilename string
	StoragePath      string
	DocumentType     string
	MimeType         string
	SizeBytes        int64
	Source           string
	Metadata         map[string]any
	CreatedAt        time.Time
}

// DatabaseHealth captures diagnostic information about the target database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	MissingColumns   []string
	IntegrityCheck   bool
	TotalJobs        int
	Error            string
}

// marshalJSONMap encodes a metadata bag for storage; empty maps store NULL.
func marshalJSONMap(value map[string]any) (any, error) {
	if len(value) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// marshalJSONList encodes a string list for storage; empty lists store NULL.
func marshalJSONList(value []string) (any, error) {
	if len(value) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func marshalRequirements(req canonical.Requirements) (any, error) {
	if req.IsZero() {
		return nil, nil
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalJSONMap(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func unmarshalJSONList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func unmarshalRequirements(raw string) canonical.Requirements {
	if raw == "" {
		return canonical.Requirements{}
	}
	var out canonical.Requirements
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return canonical.Requirements{}
	}
	return out
}

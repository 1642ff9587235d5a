package canonical

import (
	"strings"
	"time"
)

// Source identifies the provenance of a canonical record.
type Source string

const (
	SourceJobtrack     Source = "jobtrack"
	SourceContractflow Source = "contractflow"
	SourceManual       Source = "manual"
	SourceScraped      Source = "scraped"
	SourceAPI          Source = "api"
)

// Requirements holds the structured requirement fields extracted from a job
// description or a source's native requirements payload.
type Requirements struct {
	Skills          []string `json:"skills,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	EmploymentType  string   `json:"employment_type,omitempty"`
	RemoteOption    string   `json:"remote_option,omitempty"`
}

// IsZero reports whether no requirement field was extracted.
func (r Requirements) IsZero() bool {
	return len(r.Skills) == 0 && r.ExperienceLevel == "" && r.EmploymentType == "" && r.RemoteOption == ""
}

// Job is the source-independent intermediate representation of a job record
// between extraction and import. Title, Company, and Source are always set;
// missing source values default to the empty string, never to a nil marker.
type Job struct {
	OriginalID     string
	Title          string
	Company        string
	Location       string
	Description    string
	ApplicationURL string
	SalaryMin      *float64
	SalaryMax      *float64
	Currency       string
	Requirements   Requirements
	Status         Status
	Source         Source
	DatePosted     *time.Time
	DateAdded      *time.Time
	DateApplied    *time.Time
	Tags           []string
	Notes          string
	OwnerRef       string
	Metadata       map[string]any
}

// User is the source-independent intermediate representation of an account.
type User struct {
	OriginalID string
	Email      string
	FullName   string
	Source     Source
	Profile    map[string]any
	Settings   map[string]any
}

// NormalizedEmail returns the lowercased, trimmed email used for
// cross-source account deduplication.
func (u User) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(u.Email))
}

// AddTag appends tag unless it is already present (case-insensitive).
func (j *Job) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, existing := range j.Tags {
		if strings.EqualFold(existing, tag) {
			return
		}
	}
	j.Tags = append(j.Tags, tag)
}

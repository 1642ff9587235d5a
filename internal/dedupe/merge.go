package dedupe

import (
	"strings"
	"time"

	"jobvault/internal/canonical"
	"jobvault/internal/store"
)

// Salary merge policy names.
const (
	SalaryPreferLarger  = "prefer-larger"
	SalaryPreferPrimary = "prefer-primary"
	SalaryPreferRecent  = "prefer-recent"
)

// mergeSeparator marks the boundary between notes that belonged to
// different records before a merge.
const mergeSeparator = "\n\n--- Merged from duplicate entry ---\n\n"

// scoreJob rates how much a record is worth keeping as the cluster
// primary. Richness of content dominates, application activity counts
// heavily, and recently added records get a small sliding bonus.
func scoreJob(job *store.Job, now time.Time) int {
	score := 0
	if len(job.Description) > 100 {
		score += 10
	}
	if job.SalaryMin != nil || job.SalaryMax != nil {
		score += 5
	}
	if job.ApplicationURL != "" {
		score += 3
	}
	if !job.Requirements.IsZero() {
		score += 5
	}
	if len(job.Tags) > 0 {
		score += 2
	}
	if job.Status != canonical.StatusNotApplied {
		score += 15
	}
	if job.DateAdded != nil {
		days := int(now.Sub(*job.DateAdded).Hours() / 24)
		if bonus := 30 - days; bonus > 0 {
			score += bonus
		}
	}
	switch job.Source {
	case string(canonical.SourceManual):
		score += 8
	case string(canonical.SourceScraped), string(canonical.SourceAPI):
		score += 3
	}
	return score
}

// selectPrimary returns the index of the highest-scoring member. Ties keep
// the earliest-scanned record, which is also the oldest row.
func selectPrimary(group []*store.Job, now time.Time) int {
	best := 0
	bestScore := scoreJob(group[0], now)
	for i := 1; i < len(group); i++ {
		if score := scoreJob(group[i], now); score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// mergeJob folds dup into primary and returns how many genuine conflicts
// were resolved. Filling a field the primary never had is enrichment, not
// a conflict; a conflict is counted only when both records disagreed and
// the duplicate's value won.
func mergeJob(primary, dup *store.Job, salaryPolicy string) int {
	conflicts := 0

	if len(dup.Description) > len(primary.Description) {
		if primary.Description != "" {
			conflicts++
		}
		primary.Description = dup.Description
	}

	conflicts += mergeSalaryBound(&primary.SalaryMin, dup.SalaryMin, primary, dup, salaryPolicy)
	conflicts += mergeSalaryBound(&primary.SalaryMax, dup.SalaryMax, primary, dup, salaryPolicy)

	primary.Requirements.Skills = unionStrings(primary.Requirements.Skills, dup.Requirements.Skills)
	fillString(&primary.Requirements.ExperienceLevel, dup.Requirements.ExperienceLevel)
	fillString(&primary.Requirements.EmploymentType, dup.Requirements.EmploymentType)
	fillString(&primary.Requirements.RemoteOption, dup.Requirements.RemoteOption)

	fillString(&primary.Location, dup.Location)
	fillString(&primary.ApplicationURL, dup.ApplicationURL)
	fillString(&primary.Currency, dup.Currency)

	primary.Tags = unionStrings(primary.Tags, dup.Tags)

	if dup.Status.Outranks(primary.Status) {
		conflicts++
		primary.Status = dup.Status
		// The application date travels with the status it belongs to.
		if dup.DateApplied != nil {
			primary.DateApplied = dup.DateApplied
		}
	}

	if dup.DatePosted != nil && (primary.DatePosted == nil || dup.DatePosted.Before(*primary.DatePosted)) {
		if primary.DatePosted != nil {
			conflicts++
		}
		primary.DatePosted = dup.DatePosted
	}
	if dup.DateAdded != nil && (primary.DateAdded == nil || dup.DateAdded.Before(*primary.DateAdded)) {
		primary.DateAdded = dup.DateAdded
	}
	if dup.DateApplied != nil && (primary.DateApplied == nil || dup.DateApplied.After(*primary.DateApplied)) {
		primary.DateApplied = dup.DateApplied
	}

	for key, value := range dup.Metadata {
		if primary.Metadata == nil {
			primary.Metadata = map[string]any{}
		}
		if _, exists := primary.Metadata[key]; !exists {
			primary.Metadata[key] = value
		}
	}
	if dup.OriginalID != "" {
		if primary.Metadata == nil {
			primary.Metadata = map[string]any{}
		}
		trail := stringSlice(primary.Metadata["merged_from"])
		primary.Metadata["merged_from"] = append(trail, dup.OriginalID)
	}

	return conflicts
}

func mergeSalaryBound(bound **float64, candidate *float64, primary, dup *store.Job, policy string) int {
	if candidate == nil {
		return 0
	}
	if *bound == nil {
		value := *candidate
		*bound = &value
		return 0
	}
	replace := false
	switch policy {
	case SalaryPreferPrimary:
	case SalaryPreferRecent:
		replace = dup.DateAdded != nil && (primary.DateAdded == nil || dup.DateAdded.After(*primary.DateAdded))
	default:
		replace = *candidate > **bound
	}
	if !replace || *candidate == **bound {
		return 0
	}
	value := *candidate
	*bound = &value
	return 1
}

// mergeApplication folds dup's application into the primary's application
// for the same user and returns resolved conflicts.
func mergeApplication(primary, dup *store.Application) int {
	conflicts := 0

	switch {
	case primary.Notes == "":
		primary.Notes = dup.Notes
	case dup.Notes != "" && dup.Notes != primary.Notes:
		primary.Notes = primary.Notes + mergeSeparator + dup.Notes
	}

	primary.Documents = unionStrings(primary.Documents, dup.Documents)

	if dup.Status.Outranks(primary.Status) {
		conflicts++
		primary.Status = dup.Status
		if dup.AppliedAt != nil {
			primary.AppliedAt = dup.AppliedAt
		}
	}
	if dup.AppliedAt != nil && (primary.AppliedAt == nil || dup.AppliedAt.After(*primary.AppliedAt)) {
		primary.AppliedAt = dup.AppliedAt
	}

	for key, value := range dup.Metadata {
		if primary.Metadata == nil {
			primary.Metadata = map[string]any{}
		}
		if _, exists := primary.Metadata[key]; !exists {
			primary.Metadata[key] = value
		}
	}
	return conflicts
}

// stringSlice tolerates both in-memory []string values and the []any a
// JSON metadata round-trip produces.
func stringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func fillString(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

// unionStrings merges extra into base, case-insensitively, preserving
// base's order and then extra's.
func unionStrings(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	seen := make(map[string]bool, len(base))
	for _, value := range base {
		seen[strings.ToLower(value)] = true
	}
	for _, value := range extra {
		key := strings.ToLower(value)
		if !seen[key] {
			seen[key] = true
			base = append(base, value)
		}
	}
	return base
}

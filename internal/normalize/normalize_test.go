package normalize_test

import (
	"testing"
	"time"

	"jobvault/internal/canonical"
	"jobvault/internal/normalize"
)

func TestParseDateFirstLayoutWins(t *testing.T) {
	parsed, ok := normalize.ParseDate("2024-01-10", nil)
	if !ok {
		t.Fatal("expected default layouts to parse ISO date")
	}
	if parsed.Year() != 2024 || parsed.Month() != time.January || parsed.Day() != 10 {
		t.Fatalf("unexpected date: %v", parsed)
	}

	if _, ok := normalize.ParseDate("not a date", nil); ok {
		t.Fatal("expected failure for garbage input")
	}
	if _, ok := normalize.ParseDate("", nil); ok {
		t.Fatal("expected failure for empty input")
	}
}

func TestExtractRequirementsStructuredWins(t *testing.T) {
	structured := `{"Requirements": ["Go", "Kubernetes"], "Benefits": ["Snacks"]}`
	req := normalize.ExtractRequirements("We use python heavily.", structured)
	if len(req.Skills) != 2 {
		t.Fatalf("structured skills not extracted: %v", req.Skills)
	}
	found := map[string]bool{}
	for _, skill := range req.Skills {
		found[skill] = true
	}
	if !found["Go"] || !found["Kubernetes"] {
		t.Fatalf("unexpected skills: %v", req.Skills)
	}
	if found["python"] {
		t.Fatal("keyword fallback should not run when structured skills exist")
	}
}

func TestExtractRequirementsKeywordFallback(t *testing.T) {
	req := normalize.ExtractRequirements("Looking for go and postgresql experience. Fully remote.", "")
	found := map[string]bool{}
	for _, skill := range req.Skills {
		found[skill] = true
	}
	if !found["go"] || !found["postgresql"] {
		t.Fatalf("keyword skills missing: %v", req.Skills)
	}
	if req.RemoteOption != "remote" {
		t.Fatalf("remote option = %q, want remote", req.RemoteOption)
	}
}

func TestExtractRequirementsTokenBoundaries(t *testing.T) {
	req := normalize.ExtractRequirements("We use MongoDB only.", "")
	for _, skill := range req.Skills {
		if skill == "go" {
			t.Fatal(`"go" must not match inside "mongodb"`)
		}
	}
}

func TestExtractRequirementsExperienceLevels(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"Senior engineer with 5+ years required", "senior"},
		{"Great role for a new grad", "junior"},
		{"Backend engineer position", "mid"},
	}
	for _, tc := range cases {
		req := normalize.ExtractRequirements(tc.description, "")
		if req.ExperienceLevel != tc.want {
			t.Errorf("ExtractRequirements(%q).ExperienceLevel = %q, want %q", tc.description, req.ExperienceLevel, tc.want)
		}
	}
}

func TestExtractRequirementsMalformedStructuredJSON(t *testing.T) {
	req := normalize.ExtractRequirements("docker and aws", `{"broken`)
	if len(req.Skills) == 0 {
		t.Fatal("malformed structured data should fall back to keywords")
	}
}

func TestStatusMapperDefaultsToNotApplied(t *testing.T) {
	mapper := normalize.NewStatusMapper(map[string]canonical.Status{
		"applied": canonical.StatusApplied,
		"offer":   canonical.StatusOfferReceived,
	})
	if got := mapper.Map(" Applied "); got != canonical.StatusApplied {
		t.Errorf("Map(Applied) = %q", got)
	}
	if got := mapper.Map("ghosted"); got != canonical.StatusNotApplied {
		t.Errorf("unknown status should map to not_applied, got %q", got)
	}
	if got := mapper.Map(""); got != canonical.StatusNotApplied {
		t.Errorf("empty status should map to not_applied, got %q", got)
	}
}

func TestStatusMapperMergeOverrides(t *testing.T) {
	base := normalize.NewStatusMapper(map[string]canonical.Status{
		"open": canonical.StatusNotApplied,
	})
	merged := base.Merge(map[string]canonical.Status{
		"Open": canonical.StatusApplied,
	})
	if got := merged.Map("open"); got != canonical.StatusApplied {
		t.Errorf("override not applied: %q", got)
	}
	if got := base.Map("open"); got != canonical.StatusNotApplied {
		t.Errorf("merge mutated the receiver: %q", got)
	}
}

func TestDisplayCase(t *testing.T) {
	cases := []struct{ in, want string }{
		{"ACME STAFFING", "Acme Staffing"},
		{"iOS Engineer", "iOS Engineer"},
		{"  Globex  ", "Globex"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalize.DisplayCase(tc.in); got != tc.want {
			t.Errorf("DisplayCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

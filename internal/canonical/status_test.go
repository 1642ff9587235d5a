package canonical_test

import (
	"testing"

	"jobvault/internal/canonical"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  canonical.Status
		ok    bool
	}{
		{"applied", canonical.StatusApplied, true},
		{"  Offer_Received  ", canonical.StatusOfferReceived, true},
		{"", "", false},
		{"ghosted", "", false},
	}
	for _, tc := range cases {
		got, ok := canonical.ParseStatus(tc.input)
		if ok != tc.ok {
			t.Fatalf("ParseStatus(%q) ok = %v, want %v", tc.input, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestStatusPriorityOrdering(t *testing.T) {
	order := []canonical.Status{
		canonical.StatusNotApplied,
		canonical.StatusApplied,
		canonical.StatusPhoneScreen,
		canonical.StatusInterviewScheduled,
		canonical.StatusInterviewed,
		canonical.StatusOfferReceived,
	}
	for i := 1; i < len(order); i++ {
		if !order[i].Outranks(order[i-1]) {
			t.Errorf("expected %q to outrank %q", order[i], order[i-1])
		}
	}

	terminals := []canonical.Status{
		canonical.StatusRejected,
		canonical.StatusWithdrawn,
		canonical.StatusArchived,
	}
	for _, terminal := range terminals {
		if !terminal.Outranks(canonical.StatusOfferReceived) {
			t.Errorf("expected terminal %q to outrank offer_received", terminal)
		}
		if !terminal.IsTerminal() {
			t.Errorf("expected %q to be terminal", terminal)
		}
	}
	// Terminal statuses share a rank; a merge must never flip between them.
	for _, a := range terminals {
		for _, b := range terminals {
			if a.Outranks(b) {
				t.Errorf("terminal %q should not outrank terminal %q", a, b)
			}
		}
	}
}

func TestAddTagDeduplicates(t *testing.T) {
	job := &canonical.Job{}
	job.AddTag("remote")
	job.AddTag("Remote")
	job.AddTag(" ")
	job.AddTag("golang")
	if len(job.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", job.Tags)
	}
}

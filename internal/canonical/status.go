package canonical

import "strings"

// Status represents the canonical application lifecycle for an imported job.
type Status string

const (
	StatusNotApplied         Status = "not_applied"
	StatusApplied            Status = "applied"
	StatusPhoneScreen        Status = "phone_screen"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusInterviewed        Status = "interviewed"
	StatusOfferReceived      Status = "offer_received"
	StatusRejected           Status = "rejected"
	StatusWithdrawn          Status = "withdrawn"
	StatusArchived           Status = "archived"
)

var allStatuses = []Status{
	StatusNotApplied,
	StatusApplied,
	StatusPhoneScreen,
	StatusInterviewScheduled,
	StatusInterviewed,
	StatusOfferReceived,
	StatusRejected,
	StatusWithdrawn,
	StatusArchived,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// statusPriority orders statuses for "most advanced wins" merge decisions.
// The terminal statuses (rejected, withdrawn, archived) share one rank above
// offer_received: a merge never flips between two terminal statuses because
// the comparison is strict.
var statusPriority = map[Status]int{
	StatusNotApplied:         0,
	StatusApplied:            1,
	StatusPhoneScreen:        2,
	StatusInterviewScheduled: 3,
	StatusInterviewed:        4,
	StatusOfferReceived:      5,
	StatusRejected:           6,
	StatusWithdrawn:          6,
	StatusArchived:           6,
}

// AllStatuses returns the ordered list of canonical statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known canonical Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Priority returns the merge rank of a status. Unknown statuses rank lowest.
func (s Status) Priority() int {
	return statusPriority[s]
}

// Outranks reports whether s should replace other during a merge.
func (s Status) Outranks(other Status) bool {
	return s.Priority() > other.Priority()
}

// IsTerminal reports whether the status ends the application lifecycle.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusWithdrawn, StatusArchived:
		return true
	default:
		return false
	}
}

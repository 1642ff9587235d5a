package normalize

import (
	"strings"
	"time"
)

// DefaultDateFormats covers the date layouts observed across the legacy
// snapshots, most specific first.
var DefaultDateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
}

// ParseDate tries each layout in order and returns the first success.
// No layout matching yields (zero, false); ParseDate never panics.
func ParseDate(raw string, layouts []string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	if len(layouts) == 0 {
		layouts = DefaultDateFormats
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// DisplayCase cleans up shouting-case values from legacy sources. A string
// that is entirely upper case is converted to title case; mixed-case values
// pass through with only surrounding whitespace trimmed, preserving
// deliberate casing like "iOS Engineer".
func DisplayCase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if !isShouting(trimmed) {
		return trimmed
	}
	return titleCaser.String(strings.ToLower(trimmed))
}

func isShouting(value string) bool {
	hasLetter := false
	for _, r := range value {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if unicode.IsLower(r) {
			return false
		}
	}
	return hasLetter
}

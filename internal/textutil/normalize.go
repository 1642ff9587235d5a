package textutil

import "strings"

// companySuffixes are corporate suffix tokens removed during company
// normalization. Only these exact tokens are stripped; longhand variants
// such as "corporation" are deliberately left intact.
var companySuffixes = map[string]struct{}{
	"inc":          {},
	"llc":          {},
	"ltd":          {},
	"corp":         {},
	"co":           {},
	"company":      {},
	"technologies": {},
	"tech":         {},
	"systems":      {},
	"solutions":    {},
}

// titleAbbreviations expands common job-title shorthand so abbreviated and
// spelled-out titles cluster together.
var titleAbbreviations = map[string]string{
	"sr":   "senior",
	"jr":   "junior",
	"mgr":  "manager",
	"dev":  "developer",
	"eng":  "engineer",
	"sw":   "software",
	"swe":  "software engineer",
	"sde":  "software development engineer",
	"dir":  "director",
	"engr": "engineer",
}

// NormalizeCompany lowercases a company name, strips the fixed corporate
// suffix set, removes punctuation, and collapses whitespace.
func NormalizeCompany(name string) string {
	tokens := tokenize(name)
	kept := tokens[:0]
	for _, token := range tokens {
		if _, drop := companySuffixes[token]; drop {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}

// NormalizeTitle lowercases a job title, expands the fixed abbreviation
// table, removes punctuation, and collapses whitespace.
func NormalizeTitle(title string) string {
	tokens := tokenize(title)
	expanded := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if full, ok := titleAbbreviations[token]; ok {
			expanded = append(expanded, strings.Fields(full)...)
			continue
		}
		expanded = append(expanded, token)
	}
	return strings.Join(expanded, " ")
}

// tokenize lowercases the input, replaces every non-alphanumeric rune with a
// space, and splits on whitespace.
func tokenize(value string) []string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

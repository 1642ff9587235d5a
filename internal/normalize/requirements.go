package normalize

import (
	"encoding/json"
	"strings"

	"jobvault/internal/canonical"
)

// skillVocabulary is the fixed technology vocabulary used for keyword
// extraction when a source provides no structured requirements.
var skillVocabulary = []string{
	"go", "golang", "python", "java", "javascript", "typescript",
	"react", "vue", "angular", "node", "rust", "c++", "c#", "ruby",
	"kotlin", "swift", "sql", "postgresql", "mysql", "sqlite", "mongodb",
	"redis", "kafka", "docker", "kubernetes", "terraform", "aws", "gcp",
	"azure", "linux", "git", "graphql", "grpc", "rest",
}

var seniorKeywords = []string{"senior", "lead", "staff", "principal", "5+ years", "7+ years"}

var juniorKeywords = []string{"junior", "entry", "entry-level", "new grad", "graduate", "intern"}

// ExtractRequirements builds a Requirements value from a free-text
// description and an optional structured JSON payload. Structured data wins
// for skills: list-typed sections whose title contains "requirement" are
// collected first, and the keyword vocabulary is only consulted when the
// structured pass found nothing.
func ExtractRequirements(description, structuredJSON string) canonical.Requirements {
	req := canonical.Requirements{}

	req.Skills = structuredSkills(structuredJSON)
	if len(req.Skills) == 0 {
		req.Skills = keywordSkills(description)
	}

	lower := strings.ToLower(description)
	req.ExperienceLevel = inferExperienceLevel(lower)
	req.RemoteOption = inferRemoteOption(lower)
	req.EmploymentType = inferEmploymentType(lower)
	return req
}

func structuredSkills(structuredJSON string) []string {
	trimmed := strings.TrimSpace(structuredJSON)
	if trimmed == "" {
		return nil
	}
	var sections map[string]any
	if err := json.Unmarshal([]byte(trimmed), &sections); err != nil {
		return nil
	}

	var skills []string
	seen := make(map[string]struct{})
	for title, value := range sections {
		if !strings.Contains(strings.ToLower(title), "requirement") {
			continue
		}
		items, ok := value.([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			text, ok := item.(string)
			if !ok {
				continue
			}
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			key := strings.ToLower(text)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			skills = append(skills, text)
		}
	}
	return skills
}

func keywordSkills(description string) []string {
	lower := strings.ToLower(description)
	var skills []string
	for _, term := range skillVocabulary {
		if containsTerm(lower, term) {
			skills = append(skills, term)
		}
	}
	return skills
}

// containsTerm matches a vocabulary term on token boundaries so "go" does
// not match inside "mongodb".
func containsTerm(text, term string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], term)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		idx = start + 1
	}
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	return !isWordByte(text[pos-1])
}

func boundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	return !isWordByte(text[pos])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

func inferExperienceLevel(lower string) string {
	for _, keyword := range seniorKeywords {
		if strings.Contains(lower, keyword) {
			return "senior"
		}
	}
	for _, keyword := range juniorKeywords {
		if strings.Contains(lower, keyword) {
			return "junior"
		}
	}
	return "mid"
}

func inferRemoteOption(lower string) string {
	switch {
	case strings.Contains(lower, "hybrid"):
		return "hybrid"
	case strings.Contains(lower, "remote"):
		return "remote"
	default:
		return "onsite"
	}
}

func inferEmploymentType(lower string) string {
	switch {
	case strings.Contains(lower, "part-time") || strings.Contains(lower, "part time"):
		return "part_time"
	case strings.Contains(lower, "internship"):
		return "internship"
	case strings.Contains(lower, "contractor") || strings.Contains(lower, "contract role"):
		return "contract"
	case strings.Contains(lower, "full-time") || strings.Contains(lower, "full time"):
		return "full_time"
	default:
		return ""
	}
}

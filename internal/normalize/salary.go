package normalize

import (
	"strconv"
	"strings"
)

// ParseSalary converts a raw salary string into numeric bounds. Currency
// symbols and thousands separators are stripped, a "-" splits the value into
// a range, and a trailing "k" multiplies by 1000. A single value yields
// min == max. Any parse failure yields (nil, nil); partial ranges are not
// returned.
//
//	"$80,000"   -> (80000, 80000)
//	"80k-120k"  -> (80000, 120000)
//	"95000"     -> (95000, 95000)
//	"negotiable" -> (nil, nil)
func ParseSalary(raw string) (*float64, *float64) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.SplitN(trimmed, "-", 2)
	minVal, ok := parseAmount(parts[0])
	if !ok {
		return nil, nil
	}
	if len(parts) == 1 {
		maxVal := minVal
		return &minVal, &maxVal
	}
	maxVal, ok := parseAmount(parts[1])
	if !ok {
		return nil, nil
	}
	return &minVal, &maxVal
}

func parseAmount(value string) (float64, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	cleaned = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", ",", "", " ", "").Replace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	multiplier := 1.0
	if strings.HasSuffix(cleaned, "k") {
		multiplier = 1000
		cleaned = strings.TrimSuffix(cleaned, "k")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount * multiplier, true
}

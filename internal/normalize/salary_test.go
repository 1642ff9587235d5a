package normalize_test

import (
	"fmt"
	"testing"

	"jobvault/internal/normalize"
)

func TestParseSalary(t *testing.T) {
	cases := []struct {
		raw      string
		wantMin  float64
		wantMax  float64
		wantBoth bool
	}{
		{"$80,000", 80000, 80000, true},
		{"80k-120k", 80000, 120000, true},
		{"95000", 95000, 95000, true},
		{"$90,000 - $110,000", 90000, 110000, true},
		{"75.5k", 75500, 75500, true},
		{"€60,000-€70,000", 60000, 70000, true},
		{"negotiable", 0, 0, false},
		{"", 0, 0, false},
		{"80k-competitive", 0, 0, false},
	}
	for _, tc := range cases {
		minVal, maxVal := normalize.ParseSalary(tc.raw)
		if !tc.wantBoth {
			if minVal != nil || maxVal != nil {
				t.Errorf("ParseSalary(%q) = (%v, %v), want (nil, nil)", tc.raw, minVal, maxVal)
			}
			continue
		}
		if minVal == nil || maxVal == nil {
			t.Errorf("ParseSalary(%q) returned nil bounds", tc.raw)
			continue
		}
		if *minVal != tc.wantMin || *maxVal != tc.wantMax {
			t.Errorf("ParseSalary(%q) = (%v, %v), want (%v, %v)", tc.raw, *minVal, *maxVal, tc.wantMin, tc.wantMax)
		}
	}
}

func TestParseSalaryIdempotentOnOutput(t *testing.T) {
	// Reparsing the formatted bounds must not change them.
	for _, raw := range []string{"$80,000", "80k-120k", "95000"} {
		minVal, maxVal := normalize.ParseSalary(raw)
		if minVal == nil || maxVal == nil {
			t.Fatalf("ParseSalary(%q) unexpectedly failed", raw)
		}
		reMin, reMax := normalize.ParseSalary(fmt.Sprintf("%v-%v", *minVal, *maxVal))
		if reMin == nil || reMax == nil || *reMin != *minVal || *reMax != *maxVal {
			t.Errorf("reparse of %q bounds changed: (%v, %v) -> (%v, %v)", raw, *minVal, *maxVal, reMin, reMax)
		}
	}
}

func TestParseSalarySingleValueYieldsIndependentBounds(t *testing.T) {
	minVal, maxVal := normalize.ParseSalary("50000")
	if minVal == maxVal {
		t.Fatal("min and max must be independent pointers")
	}
	*minVal = 1
	if *maxVal != 50000 {
		t.Fatal("mutating min changed max")
	}
}

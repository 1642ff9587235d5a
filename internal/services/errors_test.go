package services_test

import (
	"errors"
	"testing"

	"jobvault/internal/services"
)

func TestWrapPreservesMarker(t *testing.T) {
	base := errors.New("disk full")
	err := services.Wrap(services.ErrBatch, "import", "commit jobs", "commit failed", base)
	if !errors.Is(err, services.ErrBatch) {
		t.Fatal("expected wrapped error to match ErrBatch")
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped error to match the underlying cause")
	}
}

func TestWrapDefaultsToRecordMarker(t *testing.T) {
	err := services.Wrap(nil, "extract", "read row", "bad salary", nil)
	if !errors.Is(err, services.ErrRecord) {
		t.Fatal("nil marker should default to ErrRecord")
	}
}

func TestErrorScope(t *testing.T) {
	cases := []struct {
		err  error
		want services.Scope
	}{
		{services.Wrap(services.ErrRecord, "extract", "", "", nil), services.ScopeRecord},
		{services.Wrap(services.ErrBatch, "import", "", "", nil), services.ScopeBatch},
		{services.Wrap(services.ErrSourceUnavailable, "extract", "", "", nil), services.ScopeSource},
		{services.Wrap(services.ErrConfiguration, "", "", "", nil), services.ScopeRun},
		{services.Wrap(services.ErrValidation, "", "", "", nil), services.ScopeRun},
		{errors.New("unmarked"), services.ScopeRecord},
	}
	for _, tc := range cases {
		if got := services.ErrorScope(tc.err); got != tc.want {
			t.Errorf("ErrorScope(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

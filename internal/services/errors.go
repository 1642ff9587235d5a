package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRecord marks a failure limited to a single source record. The stage
	// records it and continues with the next record.
	ErrRecord = errors.New("record error")
	// ErrBatch marks a batch-commit failure. The stage rolls back the whole
	// batch and discards its results.
	ErrBatch = errors.New("batch commit error")
	// ErrSourceUnavailable marks a missing snapshot or upload directory. The
	// stage logs a warning and returns an empty result.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrValidation marks invalid input detected before any work starts.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Scope classifies how far an error's blast radius extends.
type Scope int

const (
	// ScopeRecord failures affect one record; processing continues.
	ScopeRecord Scope = iota
	// ScopeBatch failures discard the whole transactional batch.
	ScopeBatch
	// ScopeSource failures skip an entire source's stage output.
	ScopeSource
	// ScopeRun failures abort before the run does any work.
	ScopeRun
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later scope classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrRecord
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorScope maps an error to the scope a stage driver should react to.
// Unclassified errors default to ScopeRecord so a stray failure never takes
// down more than one record.
func ErrorScope(err error) Scope {
	switch {
	case errors.Is(err, ErrBatch):
		return ScopeBatch
	case errors.Is(err, ErrSourceUnavailable):
		return ScopeSource
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return ScopeRun
	default:
		return ScopeRecord
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}

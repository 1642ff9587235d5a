// Package logging wraps log/slog with the attribute helpers, standardized
// field keys, and handler setup shared across the migration engine. Stages
// derive per-run fields (source, stage, run_id) from context so every log
// line produced inside a stage carries the same correlation attributes.
package logging

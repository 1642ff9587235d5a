// Package normalize converts raw legacy-source field values into canonical
// typed values: salary strings into numeric bounds, date strings into
// timestamps, free-text descriptions into structured requirements, and
// source-specific status labels into the canonical status enum. All
// normalizers are pure and never panic; unparseable input degrades to the
// zero value for the field.
package normalize

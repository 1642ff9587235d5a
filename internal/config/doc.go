// Package config loads, normalizes, and validates the TOML configuration
// for the migration engine: target store and content-store paths, per-source
// snapshot locations, deduplication thresholds and strategy selection, and
// logging options.
package config

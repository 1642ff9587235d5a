// Package extract reads legacy source snapshots into canonical records.
// Extractors open snapshots read-only, probe the actual schema before
// selecting, and accumulate per-record failures instead of aborting.
package extract

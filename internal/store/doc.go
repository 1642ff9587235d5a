// Package store manages the unified jobvault persistence layer backed by
// SQLite. It owns the target schema (users, jobs, applications, documents),
// read queries and aggregate statistics, and the transactional batch surface
// the importer and deduplicator commit through: one transaction per batch,
// commit-or-rollback as a unit.
package store

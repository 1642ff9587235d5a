// Package dedupe finds and merges duplicate job records that entered the
// store from different sources. Detection is fuzzy string matching over
// normalized company and title; merging keeps the richest record and folds
// the rest into it, applications included.
package dedupe

// Package textutil provides text normalization and similarity helpers used
// by the deduplication engine. Normalization strips corporate suffixes from
// company names, expands common job-title abbreviations, and reduces strings
// to lowercase alphanumeric tokens so near-identical postings compare equal.
package textutil

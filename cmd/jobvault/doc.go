// Command jobvault migrates legacy job-tracking databases into one unified
// store and deduplicates the result.
package main

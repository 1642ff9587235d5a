// Package testsupport provides shared helpers for package tests: temp-dir
// configs, target store setup, and legacy snapshot seeding.
package testsupport

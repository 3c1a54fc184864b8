// Package testutil provides shared helpers for end-to-end tests: a project
// directory harness, a stub compiler script, and output capture utilities.
package testutil

// Package executor walks resolved build plans. It decides per-target
// staleness from filesystem timestamps, runs the matching toolchain actions
// strictly in dependency order, and implements the clean operation that
// removes every generated artifact.
package executor

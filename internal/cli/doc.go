// Package cli translates command-line arguments into an application config.
// It owns the flag surface, the usage text, and the mapping from parse
// failures to process exit codes.
package cli

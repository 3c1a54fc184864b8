package config

import "context"

// Loader reads a build manifest from a concrete format and produces the
// format-agnostic Recipe. Implementations validate the result before
// returning it.
type Loader interface {
	Load(ctx context.Context, path string) (*Recipe, error)
}

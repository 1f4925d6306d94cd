package config

import "context"

// Loader is the interface for a format-specific graph-file loader.
type Loader interface {
	// Load reads every file of the loader's format under the given paths
	// and translates it into the format-agnostic model. Paths that do not
	// exist are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)
	// Extensions lists the file extensions the loader handles.
	Extensions() []string
}

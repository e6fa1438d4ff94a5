package config

import "context"

// Loader is the interface for a format-specific rule-file loader.
type Loader interface {
	// Load reads the given files, translates them into the format-agnostic
	// model and merges them in order.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// Extensions lists the file extensions this loader understands,
	// including the leading dot.
	Extensions() []string
}

package manifest

import (
	"context"

	"github.com/modshell/modshell/internal/catalog"
)

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads manifest files from the given paths, resolves component
	// implementation names against the catalog, and returns the descriptor
	// list in manifest order.
	Load(ctx context.Context, cat *catalog.Catalog, paths ...string) ([]*Descriptor, error)
}

package registry

import (
	"github.com/modshell/modshell/internal/manifest"
)

// Registry holds the loaded module descriptors and the derived slot index
// for a single application instance. It is written exactly once by Load and
// read-only thereafter.
type Registry struct {
	modules  []*manifest.Descriptor
	byID     map[string]*manifest.Descriptor
	bySlot   map[manifest.Slot][]manifest.Component
	byModule map[string]map[manifest.Slot]int
	loaded   bool
}

// New creates and initializes a new, empty Registry instance.
func New() *Registry {
	return &Registry{
		byID:     make(map[string]*manifest.Descriptor),
		bySlot:   make(map[manifest.Slot][]manifest.Component),
		byModule: make(map[string]map[manifest.Slot]int),
	}
}

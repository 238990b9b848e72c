package catalog

import (
	"fmt"
	"log/slog"
	"sort"
)

// Module is the interface that all compiled-in feature modules implement to
// contribute their implementation values.
type Module interface {
	Register(c *Catalog)
}

// Catalog holds the compiled Go implementation values that manifest
// components refer to by name. It is populated once during startup, before
// any manifest is loaded.
type Catalog struct {
	impls map[string]any
}

// New creates and initializes a new Catalog instance.
func New() *Catalog {
	return &Catalog{
		impls: make(map[string]any),
	}
}

// Register adds an implementation value under the given name. Registering
// the same name twice is a programmer error and panics.
func (c *Catalog) Register(name string, impl any) {
	if name == "" {
		panic("implementation name must not be empty")
	}
	if impl == nil {
		panic(fmt.Sprintf("implementation '%s' must not be nil", name))
	}
	if _, exists := c.impls[name]; exists {
		panic(fmt.Sprintf("implementation with name '%s' already registered", name))
	}
	slog.Debug("Registering implementation.", "name", name)
	c.impls[name] = impl
}

// Lookup returns the implementation registered under the given name.
func (c *Catalog) Lookup(name string) (any, bool) {
	impl, ok := c.impls[name]
	return impl, ok
}

// Names returns all registered implementation names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.impls))
	for name := range c.impls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered implementations.
func (c *Catalog) Len() int {
	return len(c.impls)
}

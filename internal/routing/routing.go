package routing

import "github.com/modshell/modshell/internal/manifest"

// Manager is the read-only registry view handed to route producers. The
// component registry satisfies it.
type Manager interface {
	// All returns every implementation registered under the slot, in
	// manifest order.
	All(slot manifest.Slot) []any

	// First returns the first implementation registered under the slot.
	First(slot manifest.Slot) (any, bool)

	// Has reports whether the named module contributed to the slot.
	Has(moduleID string, slot manifest.Slot) bool

	// ModuleByID returns a loaded module's descriptor.
	ModuleByID(id string) (*manifest.Descriptor, bool)

	// Modules returns every loaded descriptor in manifest order.
	Modules() []*manifest.Descriptor
}

// Producer builds a module's routes against the assembled registry.
type Producer func(m Manager) []Route

// Route is one mountable entry. Exactly one of Handler, Redirect or
// Children is normally populated; a route with both a Handler and
// Children mounts the handler at its own path and the children beneath
// it.
type Route struct {
	// Name labels the route in logs and diagnostics.
	Name string

	// Method is the HTTP method. Empty means GET.
	Method string

	// Path is the mount path, relative to the parent route's path.
	Path string

	// Handler is the host-specific handler value. The routing layer
	// carries it opaquely; the mounting shell asserts the concrete type.
	Handler any

	// Redirect, when set, turns the route into a redirect to the given
	// location instead of a handled endpoint.
	Redirect string

	// Children lazily produces sub-routes. It is not invoked during
	// aggregation; the host resolves it at mount time.
	Children Producer
}

package manifest

// Slot identifies a named extension point into which any module may
// contribute one or more implementations. The set of slot names is open:
// any string is legal, and unregistered names simply resolve to empty
// results at lookup time.
type Slot string

// Conventional extension points consumed by the shell itself. Modules are
// free to define and discover further slots of their own.
const (
	// SlotRouterEntry holds route producer functions, invoked in manifest
	// order when the route tree is aggregated.
	SlotRouterEntry Slot = "RouterEntry"

	// SlotFallbackRouterEntry holds the catch-all route used when no other
	// registered route matches. Only the first contribution is honored.
	SlotFallbackRouterEntry Slot = "FallbackRouterEntry"

	// SlotContextProvider holds provider wrappers nested around the
	// application, first-registered outermost.
	SlotContextProvider Slot = "ContextProvider"

	// SlotSidebarItem and SlotSidebarFooterItem hold navigation entries.
	SlotSidebarItem       Slot = "SidebarItem"
	SlotSidebarFooterItem Slot = "SidebarFooterItem"
)

// Component is a single contribution of a module: an implementation value
// registered under an extension point.
type Component struct {
	// Slot names the extension point this component contributes to.
	Slot Slot

	// ImplName is the catalog name the manifest used to refer to the
	// implementation. Empty for descriptors constructed programmatically.
	ImplName string

	// Impl is the opaque implementation value. Its shape is asserted by the
	// consumer of the slot, not validated here.
	Impl any

	// Gate optionally names a module flag. A gated component participates in
	// composition only while that flag is set. The registry itself ignores
	// gates; they are consulted by the composition layer.
	Gate string
}

// Descriptor is the immutable record describing one module's identity and
// its contributed components. Descriptors are created once at boot from the
// manifest and never destroyed during the process lifetime.
type Descriptor struct {
	ID          string
	Version     string
	Description string
	Author      string

	// DependentModules is declarative metadata only. It never reorders or
	// gates registration; Lint reports inconsistencies as diagnostics.
	DependentModules []string

	// Components lists the module's contributions in declaration order.
	Components []Component

	// Config holds the module's decoded configuration block, if any.
	Config map[string]any
}

package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"

	"github.com/modshell/modshell/internal/compose"
	"github.com/modshell/modshell/internal/ctxlog"
	"github.com/modshell/modshell/internal/flagstore"
	"github.com/modshell/modshell/internal/manifest"
	"github.com/modshell/modshell/internal/nav"
	"github.com/modshell/modshell/internal/registry"
	"github.com/modshell/modshell/internal/routing"
)

const (
	localRequestID = "_modshell_request_id"

	// NavigationPath serves the assembled sidebar and footer entries.
	NavigationPath = "/api/navigation"
)

// Shell is the assembled web host for one loaded registry.
type Shell struct {
	app      *fiber.App
	reg      *registry.Registry
	flags    *flagstore.Store
	composer *compose.Composer[fiber.Handler]
	chain    atomic.Pointer[fiber.Handler]
	chainSig string
	log      *slog.Logger
	cancel   context.CancelFunc
}

// New assembles the host from a loaded registry: provider chain outermost,
// aggregated module routes in manifest order, fallback route last, and the
// navigation API. Child route producers are resolved here, lazily and
// recursively, as their parents mount.
func New(ctx context.Context, reg *registry.Registry, flags *flagstore.Store) *Shell {
	log := ctxlog.FromContext(ctx)

	s := &Shell{
		reg:   reg,
		flags: flags,
		log:   log,
	}

	layers := providerLayers(log, reg)
	terminal := func(c fiber.Ctx) error { return c.Next() }
	s.composer = compose.NewComposer(layers, fiber.Handler(terminal), flags)
	root := s.composer.Root()
	s.chain.Store(&root)
	s.chainSig = s.composer.Signature()

	s.app = fiber.New(fiber.Config{
		AppName:      "modshell",
		ErrorHandler: s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(s.tagRequest)
	s.app.Use(func(c fiber.Ctx) error {
		return (*s.chain.Load())(c)
	})

	s.app.Get(NavigationPath, s.handleNavigation)

	routes := routing.Aggregate(ctx, reg)
	s.mountRoutes(routes, "")

	s.mountRoute(routing.Fallback(ctx, reg), "")

	watchCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	if gates := s.composer.GateNames(); len(gates) > 0 {
		go s.watchFlags(watchCtx, gates)
	}

	log.Info("Shell assembled.",
		"routes", len(routes), "providers", len(layers), "gates", len(s.composer.GateNames()))
	return s
}

// App exposes the underlying fiber application for serving and for
// in-process testing.
func (s *Shell) App() *fiber.App {
	return s.app
}

// Close stops the flag watcher. The fiber app's lifecycle is owned by the
// caller.
func (s *Shell) Close() {
	s.cancel()
}

// RequestID returns the identifier the shell tagged the request with.
func RequestID(c fiber.Ctx) string {
	if v := c.Locals(localRequestID); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// tagRequest assigns every request an id, exposed as a response header
// and through RequestID.
func (s *Shell) tagRequest(c fiber.Ctx) error {
	reqID := uuid.NewString()
	c.Locals(localRequestID, reqID)
	c.Set("X-Request-ID", reqID)
	return c.Next()
}

// providerLayers adapts the registered context providers into composition
// layers, keeping their slot order as identity.
func providerLayers(log *slog.Logger, reg *registry.Registry) []compose.Layer[fiber.Handler] {
	comps := reg.Components(manifest.SlotContextProvider)
	layers := make([]compose.Layer[fiber.Handler], 0, len(comps))
	for i, comp := range comps {
		provider, ok := asProvider(comp.Impl)
		if !ok {
			log.Debug("Skipping context provider with unexpected type.",
				"impl", comp.ImplName, "got", fmt.Sprintf("%T", comp.Impl))
			continue
		}
		layers = append(layers, compose.Layer[fiber.Handler]{
			Name:  comp.ImplName,
			Index: i,
			Wrap:  compose.Wrapper[fiber.Handler](provider),
			Gate:  comp.Gate,
		})
	}
	return layers
}

// watchFlags rebuilds the provider selection on transitions of the flags
// any provider is gated on.
func (s *Shell) watchFlags(ctx context.Context, gates []string) {
	events := s.flags.Subscribe(ctx, gates...)
	for ev := range events {
		s.refreshChain(ev)
	}
}

// refreshChain swaps in a newly composed chain when, and only when, the
// layer selection actually changed. In-flight requests keep the chain
// they started with.
func (s *Shell) refreshChain(ev flagstore.Event) {
	sig := s.composer.Signature()
	if sig == s.chainSig {
		return
	}
	root := s.composer.Root()
	s.chain.Store(&root)
	s.chainSig = sig
	s.log.Info("Provider chain recomposed.",
		"flag", ev.Name, "enabled", ev.Enabled, "signature", sig)
}

// mountRoutes mounts each route in order under the base path.
func (s *Shell) mountRoutes(routes []routing.Route, base string) {
	for _, route := range routes {
		s.mountRoute(route, base)
	}
}

// mountRoute mounts one route and then its lazily resolved children,
// name-spaced under the route's own path.
func (s *Shell) mountRoute(route routing.Route, base string) {
	path := joinPaths(base, route.Path)
	method := route.Method
	if method == "" {
		method = fiber.MethodGet
	}

	switch {
	case route.Redirect != "":
		target := route.Redirect
		s.app.Add([]string{method}, path, func(c fiber.Ctx) error {
			return c.Redirect().To(target)
		})
		s.log.Debug("Mounted redirect route.", "name", route.Name, "method", method, "path", path, "to", target)

	case route.Handler != nil:
		handler, ok := asHandler(route.Handler)
		if !ok {
			s.log.Warn("Skipping route with unexpected handler type.",
				"name", route.Name, "path", path, "got", fmt.Sprintf("%T", route.Handler))
			break
		}
		s.app.Add([]string{method}, path, handler)
		s.log.Debug("Mounted route.", "name", route.Name, "method", method, "path", path)

	case route.Children == nil:
		s.log.Warn("Skipping route with neither handler, redirect nor children.",
			"name", route.Name, "path", path)
	}

	if route.Children != nil {
		children := route.Children(s.reg)
		s.log.Debug("Resolved child routes.", "name", route.Name, "count", len(children))
		s.mountRoutes(children, path)
	}
}

// handleNavigation serves the sidebar and footer entries contributed by
// modules, in manifest order, with gated entries filtered by current
// flag state.
func (s *Shell) handleNavigation(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"items":  s.navItems(manifest.SlotSidebarItem),
		"footer": s.navItems(manifest.SlotSidebarFooterItem),
	})
}

func (s *Shell) navItems(slot manifest.Slot) []nav.Item {
	comps := s.reg.Components(slot)
	items := make([]nav.Item, 0, len(comps))
	for _, comp := range comps {
		if comp.Gate != "" && !s.flags.Has(comp.Gate) {
			continue
		}
		item, ok := asNavItem(comp.Impl)
		if !ok {
			s.log.Debug("Skipping navigation entry with unexpected type.",
				"impl", comp.ImplName, "got", fmt.Sprintf("%T", comp.Impl))
			continue
		}
		items = append(items, item)
	}
	return items
}

// handleError is the app-wide error boundary. A MissingContextError is a
// wiring bug in the assembly and renders its own page; everything else
// renders the generic error page. Neither takes the process down.
func (s *Shell) handleError(c fiber.Ctx, err error) error {
	var missing *MissingContextError
	if errors.As(err, &missing) {
		s.log.Error("Composed context read without an active provider.",
			"key", missing.Key, "path", c.Path(), "request_id", RequestID(c))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "missing_context",
			"key":   missing.Key,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	s.log.Error("Request failed.",
		"error", err, "path", c.Path(), "request_id", RequestID(c))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func asProvider(impl any) (Provider, bool) {
	switch p := impl.(type) {
	case Provider:
		return p, p != nil
	case func(fiber.Handler) fiber.Handler:
		return p, p != nil
	default:
		return nil, false
	}
}

func asHandler(impl any) (fiber.Handler, bool) {
	h, ok := impl.(func(fiber.Ctx) error)
	return h, ok && h != nil
}

func asNavItem(impl any) (nav.Item, bool) {
	switch v := impl.(type) {
	case nav.Item:
		return v, true
	case *nav.Item:
		if v == nil {
			return nav.Item{}, false
		}
		return *v, true
	default:
		return nav.Item{}, false
	}
}

// joinPaths name-spaces a child path under its parent's.
func joinPaths(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if base == "" || base == "/" {
		return path
	}
	trimmed := strings.TrimSuffix(base, "/")
	if path == "/" {
		return trimmed
	}
	return trimmed + path
}

package routing

import (
	"context"
	"fmt"

	"github.com/modshell/modshell/internal/ctxlog"
	"github.com/modshell/modshell/internal/manifest"
)

// DefaultFallback is the catch-all used when no module contributes a
// fallback route: any unmatched path redirects to the root.
var DefaultFallback = Route{
	Name:     "builtin_fallback",
	Method:   "GET",
	Path:     "/*",
	Redirect: "/",
}

// Aggregate invokes every registered route producer in manifest order and
// returns their outputs concatenated in that order. Children producers
// are carried through untouched.
func Aggregate(ctx context.Context, m Manager) []Route {
	log := ctxlog.FromContext(ctx)

	routes := make([]Route, 0)
	for _, impl := range m.All(manifest.SlotRouterEntry) {
		producer, ok := asProducer(impl)
		if !ok {
			log.Debug("Skipping router entry with unexpected type.", "type", typeName(impl))
			continue
		}
		routes = append(routes, producer(m)...)
	}

	log.Debug("Aggregated module routes.", "count", len(routes))
	return routes
}

// Fallback resolves the single fallback route for the assembly. With
// several contributions the first-registered one wins and the rest are
// ignored; with none, DefaultFallback applies.
func Fallback(ctx context.Context, m Manager) Route {
	log := ctxlog.FromContext(ctx)

	var chosen *Route
	for _, impl := range m.All(manifest.SlotFallbackRouterEntry) {
		route, ok := asRoute(impl)
		if !ok {
			log.Debug("Skipping fallback entry with unexpected type.", "type", typeName(impl))
			continue
		}
		if chosen == nil {
			chosen = &route
			continue
		}
		log.Debug("Ignoring extra fallback route; first registration wins.", "ignored", route.Name, "kept", chosen.Name)
	}

	if chosen == nil {
		log.Debug("No fallback route registered, using built-in catch-all.")
		return DefaultFallback
	}
	return *chosen
}

// asRoute unwraps a fallback contribution registered either as a Route
// value or a pointer to one.
func asRoute(impl any) (Route, bool) {
	switch v := impl.(type) {
	case Route:
		return v, true
	case *Route:
		if v == nil {
			return Route{}, false
		}
		return *v, true
	default:
		return Route{}, false
	}
}

// asProducer unwraps a router entry contribution.
func asProducer(impl any) (Producer, bool) {
	switch v := impl.(type) {
	case Producer:
		return v, v != nil
	case func(Manager) []Route:
		return v, v != nil
	default:
		return nil, false
	}
}

func typeName(impl any) string {
	return fmt.Sprintf("%T", impl)
}

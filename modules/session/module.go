// Package session manages sign-in state for the shell. Its context
// provider publishes the current session on every request, and its routes
// raise and lower the module flag other components gate on.
package session

import (
	"github.com/gofiber/fiber/v3"

	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/flagstore"
	"github.com/modshell/modshell/internal/routing"
	"github.com/modshell/modshell/internal/shell"
)

const (
	// LocalKey is the request-local key under which the provider publishes
	// the current *Session.
	LocalKey = "session"

	// FlagActive is raised while an authenticated session exists.
	FlagActive = "sessionActive"

	cookieName = "modshell_session"
)

// Session is the per-request identity published by the context provider.
// Requests without a valid session cookie carry the anonymous zero value.
type Session struct {
	ID            string `json:"id,omitempty"`
	User          string `json:"user,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// Current returns the session published on the request. It fails with a
// missing-context error when the session provider did not run, which the
// shell renders as a wiring-bug page.
func Current(c fiber.Ctx) (*Session, error) {
	return shell.RequireLocal[*Session](c, LocalKey)
}

// Module implements the catalog.Module interface for this package.
type Module struct {
	svc *Service
}

// New creates the session module. Raised and lowered session flags go
// through the given store.
func New(flags *flagstore.Store) *Module {
	return &Module{svc: newService(flags)}
}

// Register adds the session implementations to the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.Register("session_routes", routing.Producer(m.svc.routes))
	c.Register("session_provider", shell.Provider(m.svc.provide))
}

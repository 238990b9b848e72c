// Package health exposes the shell's liveness endpoint and a diagnostics
// surface describing the loaded module assembly.
package health

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/flagstore"
	"github.com/modshell/modshell/internal/manifest"
	"github.com/modshell/modshell/internal/routing"
)

// Module implements the catalog.Module interface for this package.
type Module struct {
	flags *flagstore.Store
	start time.Time
}

// New creates the health module. The flag store is read when rendering the
// diagnostics surface; it may be nil in tests.
func New(flags *flagstore.Store) *Module {
	return &Module{
		flags: flags,
		start: time.Now(),
	}
}

// Register adds the health implementations to the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.Register("health_routes", routing.Producer(m.routes))
}

func (m *Module) routes(rm routing.Manager) []routing.Route {
	return []routing.Route{
		{
			Name:    "health_liveness",
			Path:    "/healthz",
			Handler: m.handleLiveness,
		},
		{
			Name:    "health_modules",
			Path:    "/-/modules",
			Handler: m.inventoryHandler(rm),
		},
	}
}

func (m *Module) handleLiveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(m.start).Round(time.Second).String(),
	})
}

// inventoryHandler renders the loaded assembly: every module with its
// declared components and gates, the current flag set, and any declared
// dependency findings. The output mirrors what the manifest said, not what
// is currently composed.
func (m *Module) inventoryHandler(rm routing.Manager) func(fiber.Ctx) error {
	return func(c fiber.Ctx) error {
		descs := rm.Modules()
		mods := make([]fiber.Map, 0, len(descs))
		for _, d := range descs {
			comps := make([]fiber.Map, 0, len(d.Components))
			for _, comp := range d.Components {
				entry := fiber.Map{
					"slot": string(comp.Slot),
					"impl": comp.ImplName,
				}
				if comp.Gate != "" {
					entry["when"] = comp.Gate
				}
				comps = append(comps, entry)
			}

			mod := fiber.Map{
				"id":         d.ID,
				"version":    d.Version,
				"components": comps,
			}
			if d.Description != "" {
				mod["description"] = d.Description
			}
			if len(d.DependentModules) > 0 {
				mod["dependentModules"] = d.DependentModules
			}
			if len(d.Config) > 0 {
				mod["config"] = d.Config
			}
			mods = append(mods, mod)
		}

		findings := manifest.Lint(descs)
		notes := make([]string, 0, len(findings))
		for _, f := range findings {
			notes = append(notes, f.String())
		}

		var flags []string
		if m.flags != nil {
			flags = m.flags.Names()
		}

		return c.JSON(fiber.Map{
			"modules":  mods,
			"flags":    flags,
			"findings": notes,
		})
	}
}

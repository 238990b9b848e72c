// Package settings hosts the settings area and the extension slot other
// modules use to add their own settings screens.
package settings

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/manifest"
	"github.com/modshell/modshell/internal/nav"
	"github.com/modshell/modshell/internal/routing"
)

// SlotSection is the extension point for settings screens. Any module may
// contribute a Section here; the settings area picks them up without
// knowing the contributor.
const SlotSection = manifest.Slot("SettingsSection")

// Section is one settings screen contributed by a module.
type Section struct {
	// ID keys the section and names its route.
	ID string

	// Label is the human-readable name shown on the settings index.
	Label string

	// Path is the section's route path relative to /settings.
	Path string

	// Handler serves the section screen.
	Handler any
}

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register adds the settings implementations to the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.Register("settings_routes", routing.Producer(Routes))
	c.Register("settings_footer_item", nav.Item{Label: "Settings", Path: "/settings", Icon: "gear"})
	c.Register("settings_general_section", Section{
		ID:      "general",
		Label:   "General",
		Path:    "/general",
		Handler: handleGeneral,
	})
}

// Routes produces the settings index route. Section screens are attached as
// children, resolved against the final assembly when the route tree is
// mounted, so sections contributed by other modules appear without this
// package knowing them.
func Routes(m routing.Manager) []routing.Route {
	return []routing.Route{{
		Name:     "settings_index",
		Path:     "/settings",
		Handler:  indexHandler(m),
		Children: childRoutes,
	}}
}

func childRoutes(m routing.Manager) []routing.Route {
	sections := sectionsFrom(m)
	routes := make([]routing.Route, 0, len(sections))
	for _, s := range sections {
		routes = append(routes, routing.Route{
			Name:    "settings_" + s.ID,
			Path:    s.Path,
			Handler: s.Handler,
		})
	}
	return routes
}

func indexHandler(m routing.Manager) func(fiber.Ctx) error {
	return func(c fiber.Ctx) error {
		sections := sectionsFrom(m)
		items := make([]fiber.Map, 0, len(sections))
		for _, s := range sections {
			items = append(items, fiber.Map{
				"id":    s.ID,
				"label": s.Label,
				"path":  "/settings" + s.Path,
			})
		}
		return c.JSON(fiber.Map{
			"screen":   "settings",
			"sections": items,
		})
	}
}

func handleGeneral(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"screen": "settings.general",
		"title":  "General",
	})
}

func sectionsFrom(m routing.Manager) []Section {
	impls := m.All(SlotSection)
	sections := make([]Section, 0, len(impls))
	for _, impl := range impls {
		switch s := impl.(type) {
		case Section:
			sections = append(sections, s)
		case *Section:
			sections = append(sections, *s)
		default:
			slog.Debug("Skipping implementation with unexpected type.",
				"slot", SlotSection,
				"expected", "settings.Section",
				"got", fmt.Sprintf("%T", impl))
		}
	}
	return sections
}

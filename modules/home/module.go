// Package home contributes the landing screen and the shell's default
// navigation target.
package home

import (
	"github.com/gofiber/fiber/v3"

	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/nav"
	"github.com/modshell/modshell/internal/routing"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register adds the home implementations to the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.Register("home_routes", routing.Producer(Routes))
	c.Register("home_sidebar", nav.Item{Label: "Home", Path: "/", Icon: "house"})
}

// Routes produces the landing route.
func Routes(routing.Manager) []routing.Route {
	return []routing.Route{{
		Name:    "home_index",
		Path:    "/",
		Handler: handleIndex,
	}}
}

func handleIndex(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"screen": "home",
		"title":  "Home",
	})
}

package integrationtests

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/routing"
	"github.com/modshell/modshell/internal/shell"
	"github.com/modshell/modshell/internal/testutil"
)

// testModule registers a fixed set of implementation values, standing in
// for a compiled feature module.
type testModule struct {
	impls map[string]any
}

func (m *testModule) Register(c *catalog.Catalog) {
	for name, impl := range m.impls {
		c.Register(name, impl)
	}
}

func routesOf(routes ...routing.Route) routing.Producer {
	return func(routing.Manager) []routing.Route { return routes }
}

func textRoute(name, path, body string) routing.Route {
	return routing.Route{
		Name: name,
		Path: path,
		Handler: func(c fiber.Ctx) error {
			return c.SendString(body)
		},
	}
}

// traceProvider appends its label to the request-local trace, making
// provider nesting order observable from a handler.
func traceProvider(label string) shell.Provider {
	return func(next fiber.Handler) fiber.Handler {
		return func(c fiber.Ctx) error {
			trace, _ := c.Locals("trace").(string)
			c.Locals("trace", trace+label)
			return next(c)
		}
	}
}

func traceRoute(name, path string) routing.Route {
	return routing.Route{
		Name: name,
		Path: path,
		Handler: func(c fiber.Ctx) error {
			trace, _ := c.Locals("trace").(string)
			return c.SendString(trace)
		},
	}
}

func newGet(path string) *http.Request {
	return httptest.NewRequest("GET", path, nil)
}

// postJSON runs an in-process POST with an optional session cookie and
// returns the status code and body.
func postJSON(t *testing.T, result *testutil.HarnessResult, path, payload string, cookie *http.Cookie) (int, string) {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp := testutil.DoRequest(t, result, req)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// login signs a user in against a booted demo assembly and returns the
// session cookie.
func login(t *testing.T, result *testutil.HarnessResult, user string) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"user":"`+user+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := testutil.DoRequest(t, result, req)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "modshell_session" {
			return cookie
		}
	}
	t.Fatal("login response did not set the session cookie")
	return nil
}

// demoManifests loads the repository's shipped manifest assembly so the
// integration suite exercises exactly what the binary ships with.
func demoManifests(t *testing.T) map[string]string {
	t.Helper()

	const dir = "../../manifests"
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)
		files[entry.Name()] = string(raw)
	}
	require.NotEmpty(t, files)
	return files
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modshell/modshell/internal/flagstore"
	"github.com/modshell/modshell/internal/manifest"
	"github.com/modshell/modshell/internal/registry"
)

func newSessionApp(t *testing.T, svc *Service) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(svc.provide(func(c fiber.Ctx) error { return c.Next() }))
	for _, r := range svc.routes(nil) {
		method := r.Method
		if method == "" {
			method = fiber.MethodGet
		}
		app.Add([]string{method}, r.Path, r.Handler.(func(fiber.Ctx) error))
	}
	return app
}

func postLogin(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLogin_EstablishesSessionAndRaisesFlag(t *testing.T) {
	flags := flagstore.New()
	defer flags.Close()
	svc := newService(flags)
	app := newSessionApp(t, svc)

	resp := postLogin(t, app, `{"user":"ada","password":"pw"}`)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	assert.True(t, flags.Has(FlagActive))

	var token string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == cookieName {
			token = cookie.Value
		}
	}
	require.NotEmpty(t, token, "login must set the session cookie")

	req := httptest.NewRequest("GET", "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	current, err := app.Test(req)
	require.NoError(t, err)
	defer current.Body.Close()

	body, err := io.ReadAll(current.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"authenticated":true`)
	assert.Contains(t, string(body), `"user":"ada"`)
}

func TestLogin_RejectsMissingUser(t *testing.T) {
	flags := flagstore.New()
	defer flags.Close()
	app := newSessionApp(t, newService(flags))

	resp := postLogin(t, app, `{"password":"pw"}`)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
	assert.False(t, flags.Has(FlagActive))
}

func TestLogin_RejectsMalformedPayload(t *testing.T) {
	flags := flagstore.New()
	defer flags.Close()
	app := newSessionApp(t, newService(flags))

	resp := postLogin(t, app, `{not json`)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}

func TestProvider_PublishesAnonymousSessionWithoutCookie(t *testing.T) {
	flags := flagstore.New()
	defer flags.Close()
	app := newSessionApp(t, newService(flags))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/session", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"authenticated":false`)
}

func TestLogout_LowersFlagAndDropsToken(t *testing.T) {
	flags := flagstore.New()
	defer flags.Close()
	svc := newService(flags)
	app := newSessionApp(t, svc)

	resp := postLogin(t, app, `{"user":"ada"}`)
	resp.Body.Close()
	var token string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == cookieName {
			token = cookie.Value
		}
	}
	require.NotEmpty(t, token)
	require.True(t, flags.Has(FlagActive))

	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	out, err := app.Test(req)
	require.NoError(t, err)
	out.Body.Close()

	assert.Equal(t, 200, out.StatusCode)
	assert.False(t, flags.Has(FlagActive))
	_, found := svc.tokens.Get(token)
	assert.False(t, found, "logout must drop the cached token")
}

func TestAuthenticate_ConsultsGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		w.Header().Set("Content-Type", "application/json")
		if creds["user"] == "ada" {
			fmt.Fprint(w, `{"ok":true}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"ok":false}`)
	}))
	defer srv.Close()

	flags := flagstore.New()
	defer flags.Close()
	svc := newService(flags)
	svc.applyConfig(Config{GatewayURL: srv.URL, Timeout: 2 * time.Second, TTL: time.Minute})

	require.NoError(t, svc.authenticate(context.Background(), "ada", "pw"))

	err := svc.authenticate(context.Background(), "eve", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected user 'eve'")
}

func TestConfigureFrom_AppliesManifestConfig(t *testing.T) {
	reg := registry.New()
	err := reg.Load(context.Background(), []*manifest.Descriptor{{
		ID: "session",
		Config: map[string]any{
			"gateway_url": "http://gateway.internal",
			"timeout":     "2s",
			"ttl":         "1h",
		},
	}})
	require.NoError(t, err)

	flags := flagstore.New()
	defer flags.Close()
	svc := newService(flags)
	svc.routes(reg)

	assert.Equal(t, "http://gateway.internal", svc.cfg.GatewayURL)
	assert.Equal(t, 2*time.Second, svc.cfg.Timeout)
	assert.Equal(t, time.Hour, svc.cfg.TTL)
	assert.NotNil(t, svc.client)
}

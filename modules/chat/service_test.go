package chat

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/manifest"
	"github.com/modshell/modshell/internal/registry"
	"github.com/modshell/modshell/internal/routing"
	"github.com/modshell/modshell/modules/session"
	"github.com/modshell/modshell/modules/settings"
)

func loadRegistry(t *testing.T, descs ...*manifest.Descriptor) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.Load(context.Background(), descs))
	return r
}

// signedIn publishes an authenticated session, standing in for the
// session module's provider.
func signedIn(user string) func(fiber.Ctx) error {
	return func(c fiber.Ctx) error {
		c.Locals(session.LocalKey, &session.Session{ID: "sess-1", User: user, Authenticated: true})
		return c.Next()
	}
}

func mountChat(t *testing.T, app *fiber.App, svc *Service, m routing.Manager) {
	t.Helper()
	routes := svc.routes(m)
	require.Len(t, routes, 1)
	app.Get("/chat", routes[0].Handler.(func(fiber.Ctx) error))
	for _, child := range routes[0].Children(m) {
		method := child.Method
		if method == "" {
			method = fiber.MethodGet
		}
		app.Add([]string{method}, "/chat"+child.Path, child.Handler.(func(fiber.Ctx) error))
	}
}

func body(t *testing.T, app *fiber.App, method, target, payload string) (int, string) {
	t.Helper()
	var req = httptest.NewRequest(method, target, strings.NewReader(payload))
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestRegister_PublishesImplementations(t *testing.T) {
	cat := catalog.New()
	New().Register(cat)

	for _, name := range []string{
		"chat_routes", "chat_sidebar", "chat_draft_provider",
		"chat_send_action", "chat_settings_section",
	} {
		_, ok := cat.Lookup(name)
		assert.True(t, ok, name)
	}

	impl, _ := cat.Lookup("chat_settings_section")
	section, ok := impl.(settings.Section)
	require.True(t, ok)
	assert.Equal(t, "chat", section.ID)

	impl, _ = cat.Lookup("chat_send_action")
	action, ok := impl.(ComposerAction)
	require.True(t, ok)
	assert.Equal(t, "message.send", action.Event)
}

func TestIndex_ListsSeededConversations(t *testing.T) {
	svc := newService()
	app := fiber.New()
	mountChat(t, app, svc, loadRegistry(t))

	status, out := body(t, app, "GET", "/chat", "")
	require.Equal(t, 200, status)
	assert.Contains(t, out, `"id":"general"`)
	assert.Contains(t, out, `"id":"support"`)
	assert.Contains(t, out, `"relay":false`)
}

func TestConversation_IncludesAssembledActionsAndDraft(t *testing.T) {
	reg := loadRegistry(t, &manifest.Descriptor{
		ID: "chat",
		Components: []manifest.Component{
			{Slot: SlotComposerAction, Impl: ComposerAction{Label: "Send", Event: "message.send"}},
			{Slot: SlotComposerAction, Impl: &ComposerAction{Label: "Attach", Event: "message.attach"}},
		},
	})

	svc := newService()
	app := fiber.New()
	app.Use(signedIn("ada"))
	app.Use(svc.provide(func(c fiber.Ctx) error { return c.Next() }))
	mountChat(t, app, svc, reg)

	status, out := body(t, app, "GET", "/chat/general", "")
	require.Equal(t, 200, status)
	assert.Contains(t, out, "Welcome to the chat demo.")
	assert.Contains(t, out, `"label":"Send"`)
	assert.Contains(t, out, `"label":"Attach"`)
	assert.Contains(t, out, `"draft"`)
}

func TestConversation_UnknownIDIsNotFound(t *testing.T) {
	svc := newService()
	app := fiber.New()
	mountChat(t, app, svc, loadRegistry(t))

	status, _ := body(t, app, "GET", "/chat/nope", "")
	assert.Equal(t, 404, status)
}

func TestSend_AppendsAndBoundsHistory(t *testing.T) {
	svc := newService()
	svc.applyConfig(Config{HistoryLimit: 3})
	app := fiber.New()
	app.Use(signedIn("ada"))
	mountChat(t, app, svc, loadRegistry(t))

	for _, text := range []string{"one", "two", "three", "four"} {
		status, out := body(t, app, "POST", "/chat/support/messages", `{"text":"`+text+`"}`)
		require.Equal(t, 201, status)
		assert.Contains(t, out, `"from":"ada"`)
		assert.Contains(t, out, `"relayed":false`)
	}

	msgs := svc.conversations["support"].msgs
	require.Len(t, msgs, 3)
	assert.Equal(t, "two", msgs[0].Text)
	assert.Equal(t, "four", msgs[2].Text)
}

func TestSend_RejectsEmptyText(t *testing.T) {
	svc := newService()
	app := fiber.New()
	mountChat(t, app, svc, loadRegistry(t))

	status, _ := body(t, app, "POST", "/chat/general/messages", `{"text":""}`)
	assert.Equal(t, 400, status)
}

func TestSend_UnknownConversationIsNotFound(t *testing.T) {
	svc := newService()
	app := fiber.New()
	mountChat(t, app, svc, loadRegistry(t))

	status, _ := body(t, app, "POST", "/chat/nope/messages", `{"text":"hi"}`)
	assert.Equal(t, 404, status)
}

func TestSaveDraft_RoundTripsThroughProvider(t *testing.T) {
	svc := newService()
	app := fiber.New()
	app.Use(signedIn("ada"))
	app.Use(svc.provide(func(c fiber.Ctx) error { return c.Next() }))
	mountChat(t, app, svc, loadRegistry(t))

	status, out := body(t, app, "POST", "/chat/draft", `{"text":"hello there"}`)
	require.Equal(t, 200, status)
	assert.Contains(t, out, `"text":"hello there"`)

	// The next request's provider must see the saved draft.
	status, out = body(t, app, "GET", "/chat/general", "")
	require.Equal(t, 200, status)
	assert.Contains(t, out, `"text":"hello there"`)
}

func TestSaveDraft_WithoutProviderFailsClosed(t *testing.T) {
	svc := newService()
	app := fiber.New()
	app.Use(signedIn("ada"))
	mountChat(t, app, svc, loadRegistry(t))

	status, _ := body(t, app, "POST", "/chat/draft", `{"text":"lost"}`)
	assert.Equal(t, 500, status)
}

func TestConfigureFrom_AppliesManifestConfig(t *testing.T) {
	reg := loadRegistry(t, &manifest.Descriptor{
		ID: "chat",
		Config: map[string]any{
			"history_limit": int64(5),
			"relay_timeout": "2s",
		},
	})

	svc := newService()
	svc.routes(reg)

	assert.Equal(t, 5, svc.cfg.HistoryLimit)
	assert.Equal(t, "2s", svc.cfg.RelayTimeout.String())
	assert.Equal(t, "/", svc.cfg.RelayNamespace)
}

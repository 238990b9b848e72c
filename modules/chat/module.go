// Package chat contributes the conversation screens, a composed draft
// context gated on the session flag, and an extension slot for composer
// actions. Sent messages are optionally relayed to a socket.io endpoint.
package chat

import (
	"time"

	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/manifest"
	"github.com/modshell/modshell/internal/nav"
	"github.com/modshell/modshell/internal/routing"
	"github.com/modshell/modshell/internal/shell"
	"github.com/modshell/modshell/modules/settings"
)

// SlotComposerAction is the extension point for actions shown on the chat
// composer. Other modules contribute a ComposerAction here.
const SlotComposerAction = manifest.Slot("ChatComposerAction")

// DraftKey is the request-local key under which the draft provider
// publishes the signed-in user's *Draft.
const DraftKey = "chatDraft"

// ComposerAction is one button on the chat composer.
type ComposerAction struct {
	// Label is the action's visible name.
	Label string `json:"label"`

	// Event is emitted to the relay when the action fires.
	Event string `json:"event"`
}

// Draft is the composed draft context published per request.
type Draft struct {
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Module implements the catalog.Module interface for this package.
type Module struct {
	svc *Service
}

// New creates the chat module.
func New() *Module {
	return &Module{svc: newService()}
}

// Register adds the chat implementations to the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.Register("chat_routes", routing.Producer(m.svc.routes))
	c.Register("chat_sidebar", nav.Item{Label: "Chat", Path: "/chat", Icon: "message"})
	c.Register("chat_draft_provider", shell.Provider(m.svc.provide))
	c.Register("chat_send_action", ComposerAction{Label: "Send", Event: "message.send"})
	c.Register("chat_settings_section", settings.Section{
		ID:      "chat",
		Label:   "Chat",
		Path:    "/chat",
		Handler: m.svc.handleSettings,
	})
}

// Close shuts the relay bridge down.
func (m *Module) Close() {
	m.svc.bridge.Close()
}

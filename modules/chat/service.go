package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/modshell/modshell/internal/manifest"
	"github.com/modshell/modshell/internal/routing"
	"github.com/modshell/modshell/internal/shell"
	"github.com/modshell/modshell/modules/session"
)

const (
	defaultHistoryLimit = 50
	defaultRelayTimeout = 10 * time.Second
)

// Config tunes the chat module. It is populated from the module's
// manifest config block.
type Config struct {
	// HistoryLimit bounds the number of messages kept per conversation.
	HistoryLimit int `mapstructure:"history_limit"`

	// RelayURL is the socket.io endpoint sent messages are relayed to.
	// Empty disables the relay.
	RelayURL string `mapstructure:"relay_url"`

	// RelayNamespace is the socket.io namespace to join.
	RelayNamespace string `mapstructure:"relay_namespace"`

	// RelayTimeout bounds the relay handshake.
	RelayTimeout time.Duration `mapstructure:"relay_timeout"`
}

// Message is one chat message.
type Message struct {
	ID   string    `json:"id"`
	From string    `json:"from"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type conversation struct {
	title string
	msgs  []Message
}

// Service holds the chat state shared by the routes, the draft provider
// and the relay bridge.
type Service struct {
	mu            sync.Mutex
	conversations map[string]*conversation
	order         []string
	drafts        map[string]*Draft
	bridge        *Bridge
	cfg           Config
}

func newService() *Service {
	s := &Service{
		conversations: make(map[string]*conversation),
		drafts:        make(map[string]*Draft),
		cfg: Config{
			HistoryLimit:   defaultHistoryLimit,
			RelayNamespace: "/",
			RelayTimeout:   defaultRelayTimeout,
		},
	}
	s.bridge = newBridge(s.cfg.RelayTimeout)
	s.seed("general", "General", Message{
		ID:   uuid.NewString(),
		From: "modshell",
		Text: "Welcome to the chat demo.",
		At:   time.Now().UTC(),
	})
	s.seed("support", "Support")
	return s
}

func (s *Service) seed(id, title string, msgs ...Message) {
	s.conversations[id] = &conversation{title: title, msgs: msgs}
	s.order = append(s.order, id)
}

// routes produces the chat route tree. Conversation screens and message
// endpoints are children, resolved when the tree is mounted.
func (s *Service) routes(m routing.Manager) []routing.Route {
	s.configureFrom(m)
	return []routing.Route{{
		Name:     "chat_index",
		Path:     "/chat",
		Handler:  s.handleIndex,
		Children: s.childRoutes,
	}}
}

func (s *Service) childRoutes(m routing.Manager) []routing.Route {
	return []routing.Route{
		{
			Name:    "chat_draft_save",
			Method:  "POST",
			Path:    "/draft",
			Handler: s.handleSaveDraft,
		},
		{
			Name:    "chat_conversation",
			Path:    "/:id",
			Handler: s.conversationHandler(m),
		},
		{
			Name:    "chat_send",
			Method:  "POST",
			Path:    "/:id/messages",
			Handler: s.handleSend,
		},
	}
}

func (s *Service) configureFrom(m routing.Manager) {
	if m == nil {
		return
	}
	if desc, ok := m.ModuleByID("chat"); ok && len(desc.Config) > 0 {
		cfg := s.cfg
		if err := manifest.DecodeConfig(desc.Config, &cfg); err != nil {
			slog.Warn("Ignoring invalid chat config block.", "error", err)
		} else {
			s.applyConfig(cfg)
		}
	}

	if s.cfg.RelayURL != "" {
		go s.connectBridge()
	}
}

func (s *Service) applyConfig(cfg Config) {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.RelayNamespace == "" {
		cfg.RelayNamespace = "/"
	}
	if cfg.RelayTimeout <= 0 {
		cfg.RelayTimeout = defaultRelayTimeout
	}
	s.cfg = cfg
	s.bridge.timeout = cfg.RelayTimeout
}

func (s *Service) connectBridge() {
	if err := s.bridge.Connect(context.Background(), s.cfg.RelayURL, s.cfg.RelayNamespace); err != nil {
		slog.Warn("Chat relay unavailable; messages stay local.",
			"url", s.cfg.RelayURL, "error", err)
	}
}

// provide publishes the signed-in user's chat draft. The demo manifest
// gates this provider on the session flag; while active, anonymous
// requests still receive an empty draft rather than a missing value.
func (s *Service) provide(next fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		draft := &Draft{}
		if sess, err := session.Current(c); err == nil && sess.Authenticated {
			draft = s.draftSnapshot(sess.ID)
		}
		c.Locals(DraftKey, draft)
		return next(c)
	}
}

func (s *Service) draftSnapshot(sessionID string) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drafts[sessionID]; ok {
		snapshot := *d
		return &snapshot
	}
	return &Draft{}
}

func (s *Service) saveDraft(sessionID, text string) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &Draft{Text: text, UpdatedAt: time.Now().UTC()}
	s.drafts[sessionID] = d
	snapshot := *d
	return &snapshot
}

func (s *Service) handleIndex(c fiber.Ctx) error {
	s.mu.Lock()
	items := make([]fiber.Map, 0, len(s.order))
	for _, id := range s.order {
		conv := s.conversations[id]
		items = append(items, fiber.Map{
			"id":       id,
			"title":    conv.title,
			"path":     "/chat/" + id,
			"messages": len(conv.msgs),
		})
	}
	s.mu.Unlock()

	return c.JSON(fiber.Map{
		"screen":        "chat",
		"conversations": items,
		"relay":         s.bridge.Connected(),
	})
}

// conversationHandler resolves the composer actions against the assembly
// once, at mount time; their set is fixed for the process lifetime.
func (s *Service) conversationHandler(m routing.Manager) func(fiber.Ctx) error {
	actions := actionsFrom(m)
	return func(c fiber.Ctx) error {
		id := c.Params("id")

		s.mu.Lock()
		conv, ok := s.conversations[id]
		var title string
		var msgs []Message
		if ok {
			title = conv.title
			msgs = slices.Clone(conv.msgs)
		}
		s.mu.Unlock()

		if !ok {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown conversation '%s'", id))
		}

		out := fiber.Map{
			"screen":   "chat.conversation",
			"id":       id,
			"title":    title,
			"messages": msgs,
			"actions":  actions,
		}
		if draft, ok := c.Locals(DraftKey).(*Draft); ok {
			out["draft"] = draft
		}
		return c.JSON(out)
	}
}

func (s *Service) handleSend(c fiber.Ctx) error {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed message payload")
	}
	if payload.Text == "" {
		return fiber.NewError(fiber.StatusBadRequest, "text is required")
	}

	from := "anonymous"
	if sess, err := session.Current(c); err == nil && sess.Authenticated {
		from = sess.User
	}

	id := c.Params("id")
	msg := Message{
		ID:   uuid.NewString(),
		From: from,
		Text: payload.Text,
		At:   time.Now().UTC(),
	}

	s.mu.Lock()
	conv, ok := s.conversations[id]
	if ok {
		conv.msgs = append(conv.msgs, msg)
		if limit := s.cfg.HistoryLimit; limit > 0 && len(conv.msgs) > limit {
			conv.msgs = conv.msgs[len(conv.msgs)-limit:]
		}
	}
	s.mu.Unlock()

	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown conversation '%s'", id))
	}

	relayed := s.bridge.Relay("message", fiber.Map{
		"conversation": id,
		"from":         msg.From,
		"text":         msg.Text,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": msg,
		"relayed": relayed,
	})
}

// handleSaveDraft requires the composed draft context; with the session
// gate off the shell renders the missing-context page instead.
func (s *Service) handleSaveDraft(c fiber.Ctx) error {
	if _, err := shell.RequireLocal[*Draft](c, DraftKey); err != nil {
		return err
	}
	sess, err := session.Current(c)
	if err != nil {
		return err
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed draft payload")
	}

	draft := s.saveDraft(sess.ID, payload.Text)
	return c.JSON(fiber.Map{"draft": draft})
}

func (s *Service) handleSettings(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"screen":       "settings.chat",
		"historyLimit": s.cfg.HistoryLimit,
		"relay": fiber.Map{
			"url":       s.cfg.RelayURL,
			"connected": s.bridge.Connected(),
		},
	})
}

func actionsFrom(m routing.Manager) []ComposerAction {
	impls := m.All(SlotComposerAction)
	actions := make([]ComposerAction, 0, len(impls))
	for _, impl := range impls {
		switch a := impl.(type) {
		case ComposerAction:
			actions = append(actions, a)
		case *ComposerAction:
			actions = append(actions, *a)
		default:
			slog.Debug("Skipping implementation with unexpected type.",
				"slot", SlotComposerAction,
				"expected", "chat.ComposerAction",
				"got", fmt.Sprintf("%T", impl))
		}
	}
	return actions
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"resty.dev/v3"

	"github.com/modshell/modshell/internal/flagstore"
	"github.com/modshell/modshell/internal/manifest"
	"github.com/modshell/modshell/internal/routing"
)

const (
	defaultTimeout = 5 * time.Second
	defaultTTL     = 30 * time.Minute
)

// Config tunes the session service. It is populated from the module's
// manifest config block.
type Config struct {
	// GatewayURL is the base URL of the auth gateway. Empty runs the demo
	// local mode, where any non-empty user signs in.
	GatewayURL string `mapstructure:"gateway_url"`

	// Timeout bounds each gateway call.
	Timeout time.Duration `mapstructure:"timeout"`

	// TTL is how long an issued session token stays valid.
	TTL time.Duration `mapstructure:"ttl"`
}

// Service holds the session state shared by the routes and the provider.
type Service struct {
	flags  *flagstore.Store
	tokens *gocache.Cache
	client *resty.Client
	cfg    Config
}

func newService(flags *flagstore.Store) *Service {
	return &Service{
		flags:  flags,
		tokens: gocache.New(defaultTTL, 10*time.Minute),
		cfg:    Config{Timeout: defaultTimeout, TTL: defaultTTL},
	}
}

// routes produces the sign-in endpoints. The module's manifest config is
// only available once the assembly is loaded, so it is applied here.
func (s *Service) routes(m routing.Manager) []routing.Route {
	s.configureFrom(m)
	return []routing.Route{
		{
			Name:    "session_login",
			Method:  "POST",
			Path:    "/login",
			Handler: s.handleLogin,
		},
		{
			Name:    "session_logout",
			Method:  "POST",
			Path:    "/logout",
			Handler: s.handleLogout,
		},
		{
			Name:    "session_current",
			Path:    "/api/session",
			Handler: s.handleCurrent,
		},
	}
}

func (s *Service) configureFrom(m routing.Manager) {
	if m == nil {
		return
	}
	desc, ok := m.ModuleByID("session")
	if !ok || len(desc.Config) == 0 {
		return
	}

	cfg := s.cfg
	if err := manifest.DecodeConfig(desc.Config, &cfg); err != nil {
		slog.Warn("Ignoring invalid session config block.", "error", err)
		return
	}
	s.applyConfig(cfg)
}

func (s *Service) applyConfig(cfg Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	s.cfg = cfg

	if cfg.GatewayURL != "" {
		s.client = resty.New().
			SetBaseURL(cfg.GatewayURL).
			SetTimeout(cfg.Timeout)
	}
}

// provide publishes the current session into the request locals. Every
// request gets a *Session; without a valid cookie it is the anonymous
// zero value, so consumers never need a nil check.
func (s *Service) provide(next fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		sess := &Session{}
		if token := c.Cookies(cookieName); token != "" {
			if v, ok := s.tokens.Get(token); ok {
				if cached, ok := v.(*Session); ok {
					sess = cached
				}
			}
		}
		c.Locals(LocalKey, sess)
		return next(c)
	}
}

func (s *Service) handleLogin(c fiber.Ctx) error {
	var creds struct {
		User     string `json:"user"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &creds); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed credentials payload")
	}
	if creds.User == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user is required")
	}

	if err := s.authenticate(c.Context(), creds.User, creds.Password); err != nil {
		slog.Warn("Sign-in rejected.", "user", creds.User, "error", err)
		return fiber.NewError(fiber.StatusUnauthorized, "authentication rejected")
	}

	token := uuid.NewString()
	sess := &Session{ID: token, User: creds.User, Authenticated: true}
	s.tokens.Set(token, sess, s.cfg.TTL)
	s.flags.Set(FlagActive)

	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(s.cfg.TTL),
	})
	slog.Info("Session established.", "user", creds.User)
	return c.JSON(fiber.Map{"session": sess})
}

func (s *Service) handleLogout(c fiber.Ctx) error {
	if token := c.Cookies(cookieName); token != "" {
		s.tokens.Delete(token)
	}
	s.flags.Remove(FlagActive)
	c.ClearCookie(cookieName)
	return c.JSON(fiber.Map{"session": &Session{}})
}

func (s *Service) handleCurrent(c fiber.Ctx) error {
	sess, err := Current(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"session": sess})
}

// authenticate checks credentials against the configured gateway. Demo
// assemblies run without one; then any non-empty user signs in locally.
func (s *Service) authenticate(ctx context.Context, user, password string) error {
	if s.client == nil {
		return nil
	}

	var result struct {
		OK bool `json:"ok"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"user": user, "password": password}).
		SetResult(&result).
		Post("/v1/authenticate")
	if err != nil {
		return fmt.Errorf("auth gateway request failed: %w", err)
	}
	if !resp.IsSuccess() || !result.OK {
		return fmt.Errorf("auth gateway rejected user '%s' (status %d)", user, resp.StatusCode())
	}
	return nil
}

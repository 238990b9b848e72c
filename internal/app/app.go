package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/config"
	"github.com/modshell/modshell/internal/ctxlog"
	"github.com/modshell/modshell/internal/flagstore"
	"github.com/modshell/modshell/internal/manifest"
	"github.com/modshell/modshell/internal/registry"
	"github.com/modshell/modshell/internal/shell"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *config.Config
	flags    *flagstore.Store
	registry *registry.Registry
	shell    *shell.Shell
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, flag store,
// registry and web shell. An assembly failure is a fatal startup error and
// panics; entrypoints recover it.
func NewApp(outW io.Writer, cfg *config.Config, loader manifest.Loader, mods ...catalog.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, newSink(cfg, outW))
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// The flag store exists before any module so that constructors can hold
	// it, and carries the configured flags before traffic is accepted.
	flags := flagstore.New()
	for _, name := range cfg.Flags {
		flags.Set(name)
	}

	cat := catalog.New()
	if len(mods) == 0 {
		mods = coreModules(flags)
	}
	for _, mod := range mods {
		mod.Register(cat)
	}
	logger.Debug("All Go modules registered.", "count", len(mods), "implementations", cat.Len())

	descs, err := loader.Load(ctx, cat, cfg.ManifestPath)
	if err != nil {
		// A failure to load the manifest is a fatal startup error.
		panic(fmt.Errorf("failed to load manifests: %w", err))
	}
	logger.Debug("Manifests loaded and resolved against the catalog.", "modules", len(descs))
	if len(descs) == 0 {
		logger.Warn("No modules found in manifest path.", "path", cfg.ManifestPath)
	}

	for _, finding := range manifest.Lint(descs) {
		logger.Warn("Manifest dependency finding.", "detail", finding.String())
	}

	reg := registry.New()
	if err := reg.Load(ctx, descs); err != nil {
		panic(fmt.Errorf("failed to load registry: %w", err))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		flags:    flags,
		registry: reg,
		shell:    shell.New(ctx, reg, flags),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Flags returns the application's module flag store.
func (a *App) Flags() *flagstore.Store {
	return a.flags
}

// Shell returns the assembled web shell. This is primarily for testing.
func (a *App) Shell() *shell.Shell {
	return a.shell
}

// Close releases the app's background resources. It does not stop a
// running listener; Run handles that on context cancellation.
func (a *App) Close() {
	a.shell.Close()
	a.flags.Close()
}

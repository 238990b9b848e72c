package app

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/modshell/modshell/internal/ctxlog"
)

// Run serves the web shell until the context is cancelled or the listener
// fails. Shutdown on cancellation is bounded by the configured timeout.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	addr := fmt.Sprintf(":%d", a.config.ListenPort)
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- a.shell.App().Listen(addr, fiber.ListenConfig{
			DisableStartupMessage: true,
		})
	}()
	a.logger.Info("Web shell listening.", "addr", addr)

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("web shell listener failed: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received, draining connections.",
			"timeout", a.config.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
		defer cancel()
		if err := a.shell.App().ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

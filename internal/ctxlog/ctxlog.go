// Package ctxlog carries the application's slog.Logger through a
// context.Context so deep call sites log through the shell's configured
// handler rather than the process-global default.
package ctxlog

import (
	"context"
	"log/slog"
)

// ctxKey is unexported so no other package can collide with our context key.
type ctxKey struct{}

// WithLogger returns a child context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx. Contexts that never passed
// through WithLogger (tests, early boot) fall back to slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

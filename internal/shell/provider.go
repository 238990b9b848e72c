package shell

import "github.com/gofiber/fiber/v3"

// Provider is the wrapper shape context providers contribute under the
// ContextProvider slot. A provider receives the downstream chain and
// returns a handler that runs around it, typically publishing values
// into the request locals before delegating.
type Provider func(next fiber.Handler) fiber.Handler

// RequireLocal reads a composed context value published by a provider.
// A missing or differently-typed value yields a *MissingContextError,
// which the shell's error boundary renders as a wiring-bug page rather
// than taking the process down.
func RequireLocal[T any](c fiber.Ctx, key string) (T, error) {
	if v := c.Locals(key); v != nil {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	var zero T
	return zero, &MissingContextError{Key: key}
}

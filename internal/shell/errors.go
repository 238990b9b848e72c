package shell

import "fmt"

// MissingContextError reports that a handler read a composed context
// value no active provider supplies on its route. It marks a wiring bug
// in the assembly (consumer mounted outside its provider's subtree, or
// the provider's gate is off), not a user error.
type MissingContextError struct {
	// Key is the context key the consumer asked for.
	Key string
}

// Error implements the error interface.
func (e *MissingContextError) Error() string {
	return fmt.Sprintf("missing composed context value '%s': no active provider supplies it on this route", e.Key)
}

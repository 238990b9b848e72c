package manifest

import "fmt"

// ConfigError reports a structurally invalid manifest: a duplicate or empty
// module id, or a component entry without an implementation. It signals a
// packaging mistake rather than a runtime condition, so it is fatal at
// startup and aborts the boot sequence.
type ConfigError struct {
	ModuleID string
	Reason   string
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	if e.ModuleID == "" {
		return fmt.Sprintf("invalid manifest: %s", e.Reason)
	}
	return fmt.Sprintf("invalid manifest: module '%s': %s", e.ModuleID, e.Reason)
}

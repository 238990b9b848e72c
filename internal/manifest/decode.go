package manifest

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeConfig binds a module's raw config map onto a typed struct. Fields
// are matched by their mapstructure tags, and duration strings such as "30s"
// decode into time.Duration fields.
func DecodeConfig(src map[string]any, dst any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     dst,
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(src); err != nil {
		return fmt.Errorf("failed to decode module config: %w", err)
	}
	return nil
}

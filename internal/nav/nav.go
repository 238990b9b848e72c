// Package nav defines the navigation contribution contract shared by the
// shell and feature modules.
package nav

// Item is one navigation entry. Modules contribute Item values under the
// sidebar slots; the shell assembles them in manifest order and serves
// them from the navigation API.
type Item struct {
	// Label is the human-readable entry text.
	Label string `json:"label"`

	// Path is the in-app target path.
	Path string `json:"path"`

	// Icon optionally names an icon known to the frontend.
	Icon string `json:"icon,omitempty"`
}

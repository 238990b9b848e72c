package registry

import (
	"context"
	"fmt"

	"github.com/modshell/modshell/internal/ctxlog"
	"github.com/modshell/modshell/internal/manifest"
)

// Load validates the ordered descriptor list and builds the slot index.
// Descriptor order is preserved exactly: for every extension point, the
// contributed implementations appear in manifest order, concatenating each
// module's own declared order for repeated slot names.
//
// A duplicate module id, an empty module id, or a component without an
// implementation returns a *manifest.ConfigError. The registry is
// load-once: calling Load a second time is a programmer error and panics.
func (r *Registry) Load(ctx context.Context, descs []*manifest.Descriptor) error {
	if r.loaded {
		panic("registry already loaded")
	}
	logger := ctxlog.FromContext(ctx)

	if err := validate(descs); err != nil {
		return err
	}

	for _, d := range descs {
		r.modules = append(r.modules, d)
		r.byID[d.ID] = d

		counts := make(map[manifest.Slot]int, len(d.Components))
		for _, comp := range d.Components {
			r.bySlot[comp.Slot] = append(r.bySlot[comp.Slot], comp)
			counts[comp.Slot]++
		}
		r.byModule[d.ID] = counts
	}
	r.loaded = true

	logger.Info("Registry loaded successfully.", "modules", len(r.modules), "slots", len(r.bySlot))
	return nil
}

// validate checks the structural invariants the rest of the registry relies
// on. It runs before any descriptor is indexed, so a failed load leaves the
// registry empty.
func validate(descs []*manifest.Descriptor) error {
	seen := make(map[string]struct{}, len(descs))
	for _, d := range descs {
		if d.ID == "" {
			return &manifest.ConfigError{Reason: "module id must not be empty"}
		}
		if _, dup := seen[d.ID]; dup {
			return &manifest.ConfigError{ModuleID: d.ID, Reason: "duplicate module id"}
		}
		seen[d.ID] = struct{}{}

		for _, comp := range d.Components {
			if comp.Slot == "" {
				return &manifest.ConfigError{ModuleID: d.ID, Reason: "component slot must not be empty"}
			}
			if comp.Impl == nil {
				return &manifest.ConfigError{
					ModuleID: d.ID,
					Reason:   fmt.Sprintf("component for slot '%s' has no implementation", comp.Slot),
				}
			}
		}
	}
	return nil
}

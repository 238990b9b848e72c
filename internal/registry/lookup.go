package registry

import (
	"fmt"
	"log/slog"

	"github.com/modshell/modshell/internal/manifest"
)

// All returns every implementation contributed under the given slot, across
// all modules, in manifest order. Absence is a normal outcome: an
// unregistered slot yields an empty, non-nil slice, never an error.
func (r *Registry) All(slot manifest.Slot) []any {
	comps := r.bySlot[slot]
	impls := make([]any, len(comps))
	for i, c := range comps {
		impls[i] = c.Impl
	}
	return impls
}

// First returns the first implementation registered under the slot, or
// ok=false when the slot has no contributions. Many extension points are
// optional, so the miss is not an error.
func (r *Registry) First(slot manifest.Slot) (any, bool) {
	comps := r.bySlot[slot]
	if len(comps) == 0 {
		return nil, false
	}
	return comps[0].Impl, true
}

// Components returns the full component records for a slot, including the
// declared flag gates, in manifest order. The returned slice is a copy.
func (r *Registry) Components(slot manifest.Slot) []manifest.Component {
	return append([]manifest.Component(nil), r.bySlot[slot]...)
}

// Has reports whether the module with the given id contributes at least one
// implementation under the slot.
func (r *Registry) Has(moduleID string, slot manifest.Slot) bool {
	return r.byModule[moduleID][slot] > 0
}

// ModuleByID returns the descriptor registered under the id, or ok=false
// when no module with that id was loaded.
func (r *Registry) ModuleByID(id string) (*manifest.Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Modules returns all loaded descriptors in manifest order. The returned
// slice is a copy; the descriptors themselves are shared and immutable.
func (r *Registry) Modules() []*manifest.Descriptor {
	return append([]*manifest.Descriptor(nil), r.modules...)
}

// AllAs returns the implementations under the slot that satisfy the
// caller-asserted type T, in manifest order. The core does not validate
// implementation shapes, so values of a different type are skipped with a
// debug log rather than failing the lookup.
func AllAs[T any](r *Registry, slot manifest.Slot) []T {
	comps := r.bySlot[slot]
	out := make([]T, 0, len(comps))
	for _, c := range comps {
		v, ok := c.Impl.(T)
		if !ok {
			slog.Debug("Skipping implementation with unexpected type.",
				"slot", string(slot), "impl", c.ImplName, "got", fmt.Sprintf("%T", c.Impl))
			continue
		}
		out = append(out, v)
	}
	return out
}

// FirstAs returns the first implementation under the slot that satisfies
// the caller-asserted type T, or ok=false when there is none.
func FirstAs[T any](r *Registry, slot manifest.Slot) (T, bool) {
	for _, v := range AllAs[T](r, slot) {
		return v, true
	}
	var zero T
	return zero, false
}

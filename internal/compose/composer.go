package compose

import (
	"strings"
	"sync"
)

// FlagReader reports whether a named module flag is currently set. The
// flag store satisfies this.
type FlagReader interface {
	Has(name string) bool
}

// Composer assembles registered layers around a fixed children value and
// memoizes the result. The composed root is rebuilt only when the set of
// selected layers changes, so flag flips that do not touch a gate are
// free and the root value stays identical between reads.
type Composer[T any] struct {
	layers   []Layer[T]
	children T
	flags    FlagReader

	mu    sync.Mutex
	sig   string
	root  T
	built bool
}

// NewComposer returns a composer over the given layers. The layer order is
// the registration order; it never changes afterwards. A nil flags reader
// selects every layer unconditionally.
func NewComposer[T any](layers []Layer[T], children T, flags FlagReader) *Composer[T] {
	return &Composer[T]{
		layers:   layers,
		children: children,
		flags:    flags,
	}
}

// selected returns the layers that currently participate in composition:
// every ungated layer, plus each gated layer whose flag is set.
func (c *Composer[T]) selected() []Layer[T] {
	out := make([]Layer[T], 0, len(c.layers))
	for _, l := range c.layers {
		if l.Gate != "" && c.flags != nil && !c.flags.Has(l.Gate) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// signature derives a stable key for a selection. Two selections with the
// same layers in the same order produce the same signature.
func signature[T any](layers []Layer[T]) string {
	keys := make([]string, len(layers))
	for i, l := range layers {
		keys[i] = l.Key()
	}
	return strings.Join(keys, "|")
}

// Root returns the composed value for the current flag state. Successive
// calls under an unchanged selection return the exact same value without
// re-running any wrapper.
func (c *Composer[T]) Root() T {
	c.mu.Lock()
	defer c.mu.Unlock()

	sel := c.selected()
	sig := signature(sel)
	if c.built && sig == c.sig {
		return c.root
	}

	c.root = Chain(sel, c.children)
	c.sig = sig
	c.built = true
	return c.root
}

// Signature returns the identity of the current selection without
// composing it. Callers use it to detect whether a flag change altered
// the selection at all.
func (c *Composer[T]) Signature() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return signature(c.selected())
}

// GateNames returns the distinct flag names any layer is gated on, in
// registration order. An empty result means no flag can ever change the
// composition.
func (c *Composer[T]) GateNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, l := range c.layers {
		if l.Gate == "" {
			continue
		}
		if _, ok := seen[l.Gate]; ok {
			continue
		}
		seen[l.Gate] = struct{}{}
		names = append(names, l.Gate)
	}
	return names
}

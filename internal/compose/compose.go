package compose

import "fmt"

// Wrapper nests one provider layer around a renderable subtree and returns
// the wrapped subtree.
type Wrapper[T any] func(T) T

// Layer pairs a wrapper with its stable identity and an optional flag gate.
type Layer[T any] struct {
	// Name is the declared implementation name of the wrapper.
	Name string

	// Index is the wrapper's registration position. Together with Name it
	// forms the layer's identity.
	Index int

	// Wrap performs the actual nesting.
	Wrap Wrapper[T]

	// Gate optionally names a module flag; a gated layer participates in
	// composition only while that flag is set.
	Gate string
}

// Key returns the layer's stable identity. It stays constant across
// recompositions, so removing one layer from the selection never changes
// the identity of the remaining layers.
func (l Layer[T]) Key() string {
	return fmt.Sprintf("%d#%s", l.Index, l.Name)
}

// Chain nests the given layers around children, first-registered outermost:
// Chain([P1 .. Pn], c) produces P1(P2(...Pn(c))). An empty layer list
// returns children unchanged.
func Chain[T any](layers []Layer[T], children T) T {
	for i := len(layers) - 1; i >= 0; i-- {
		children = layers[i].Wrap(children)
	}
	return children
}

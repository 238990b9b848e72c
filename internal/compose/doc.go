// Package compose builds the composition root: the nesting of provider
// wrappers around a renderable subtree.
//
// Nesting order is significant and deterministic: the first-registered
// wrapper becomes the outermost layer, matching the lookup order of the
// registry exactly, so composition is reproducible across render passes and
// across process runs. Layers carry a stable identity derived from their
// registration index and declared name, so a change in the participating
// set never disturbs the identity of unrelated layers.
package compose

// Package registry provides the central "glue" for the module system.
//
// The Registry stores the ordered module descriptors loaded from the
// manifest and a derived index from extension-point name to the ordered
// sequence of contributed implementations. It is populated exactly once
// during application startup and is read-only afterwards, so lookups need
// no locking.
//
// Lookup misses are never errors: asking for an unregistered slot yields an
// empty sequence, and asking for an unknown module id yields a not-found
// result. Only a structurally invalid manifest (duplicate or empty module
// ids, components without implementations) fails the load, since that
// signals a packaging mistake rather than a runtime condition.
package registry

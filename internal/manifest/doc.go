// Package manifest defines the format-agnostic model of an application
// manifest: the ordered list of module descriptors consumed once at boot.
//
// A Descriptor records one module's identity and its contributed components.
// Descriptors are immutable after loading; the registry package indexes them
// and exposes the lookup API. Concrete loader implementations, such as for
// HCL, are provided in separate packages.
package manifest

// Package catalog maps the string implementation names used in manifests to
// the compiled Go values that carry a module's actual behavior.
//
// Feature modules register their route producers, provider wrappers, and
// navigation entries here at startup. The manifest loader then stitches
// component declarations to these values by name, so that the shell never
// needs compile-time knowledge of any module's internals.
package catalog

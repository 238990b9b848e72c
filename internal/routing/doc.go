// Package routing aggregates route contributions from feature modules
// into the flat, ordered list the shell mounts on the HTTP host.
//
// Modules contribute producers rather than routes: a producer is a
// function the aggregator invokes with a read-only registry view, so a
// module can shape its routes against the final assembly (other modules'
// presence, decoded config) instead of against its own manifest alone.
// Producers run in manifest order and their outputs concatenate in that
// order, which makes route precedence a property of the assembly file.
//
// Child routes stay lazy. A route's Children producer is carried through
// aggregation untouched and resolved only when the host mounts that
// route, so a subtree's cost is paid only if its parent is mounted.
package routing

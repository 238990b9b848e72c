// Package shell turns a loaded registry into the running web host. It
// nests the composed provider chain around every request, mounts the
// aggregated module routes plus the fallback, serves the navigation API,
// and rebuilds the provider selection when a gating flag flips.
//
// The provider chain is swapped through an atomic pointer: requests
// in flight keep the chain they started with, new requests pick up the
// new one, and the fiber app itself is never rebuilt or remounted.
package shell

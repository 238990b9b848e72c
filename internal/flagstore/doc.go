// Package flagstore provides the in-process registry of named module
// flags: boolean switches that feature modules set and remove at runtime
// and that the shell consults when gating contributions.
//
// The store is level-triggered. Setting a flag that is already set, or
// removing one that is absent, changes nothing and notifies nobody; an
// event is published only when a flag actually transitions. Subscribers
// receive events on buffered channels with non-blocking delivery, so a
// slow consumer can lose events but can never stall a publisher.
//
// State is ephemeral: flags live for the lifetime of the process and are
// not persisted across restarts.
package flagstore

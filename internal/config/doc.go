// Package config defines the host process configuration: where the
// manifest lives, how the server listens, how logging behaves, and which
// module flags are pre-set at boot.
//
// Configuration merges three layers, later winning: built-in defaults, an
// optional TOML file, and command-line flags (applied by the cli
// package). Duration fields accept Go duration strings ("30s", "5m").
package config

// Package app contains the core application logic. It defines the main App
// struct, its assembly sequence, and the serving lifecycle, decoupled from
// any specific entrypoint like a CLI.
package app

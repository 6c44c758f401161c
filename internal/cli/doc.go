// Package cli defines the Cobra command tree for the webext CLI. Each file
// registers one top-level command with the root command. Commands only parse
// flags, wire dependencies and format output; the work happens in the
// internal packages they call.
package cli

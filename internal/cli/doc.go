// Package cli wires together the Cobra command tree for the clippycheck binary.
//
// It defines the root command and its subcommands (run, parse, config,
// version), binds flags, reads configuration, drives clippy and the check
// runner, and returns deterministic exit codes for CI gating.
package cli

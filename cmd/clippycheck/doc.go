// Clippycheck runs cargo clippy and reports its diagnostics as a GitHub
// check run with line annotations.
//
// It is meant to run inside a GitHub Actions job. Inputs are read from the
// INPUT_* variables the runner exports, from CLIPPYCHECK_* variables, from a
// config file, or from flags.
//
// Usage:
//
//	clippycheck                                   # run clippy and publish the check run
//	clippycheck run --toolchain nightly --args "--all-features -- -D warnings"
//	cargo clippy --message-format=json | clippycheck parse --format sarif
//	clippycheck config show                       # print the effective configuration
//
// Exit codes: 0 success, 1 clippy errors, 2 usage error, 3 authentication
// failure, 4 runtime error.
package main

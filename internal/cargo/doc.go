// Package cargo runs cargo clippy (or cross clippy) with JSON diagnostics
// and streams its standard output line by line.
//
// The exit code of clippy is returned rather than treated as a failure:
// a lint run that finds errors exits non-zero, and the diagnostics still
// have to be reported before the exit code is surfaced.
package cargo

// Package render produces the check-run summary and body text from
// aggregated diagnostic counts.
//
// Both [Summary] and [Text] are pure functions: the same input always yields
// the same output, so they can be called again for every update of a check
// run.
package render

// Package redact masks credentials before they reach logs, error output or
// printed configuration.
//
// Detection uses regex heuristics for the token shapes a CI job is likely to
// carry: GitHub personal access, OAuth, app installation and fine-grained
// tokens, bearer authorization values and JWTs.
package redact

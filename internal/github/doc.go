// Package github is a minimal client for the GitHub Checks API and the
// GitHub Actions runner environment.
//
// [Client] creates and updates check runs over the REST API. Requests are
// paced by a token-bucket limiter and are never retried. [CheckService]
// adapts the client to [check.Service].
//
// [LoadEnv] reads the repository, commit and pull-request context that the
// Actions runner exports, falling back to the local git remote for the
// repository name. [CommandSink] writes annotations as workflow commands for
// the runner to pick up when check runs cannot be created.
package github

// Package check aggregates one build's diagnostics and reports them as a
// GitHub check run.
//
// A [Collector] consumes cargo's JSON output line by line, counting each
// accepted diagnostic and converting it into an annotation. A [Runner] then
// drives the remote check run through its lifecycle:
//
//	create (in_progress) -> update* (in_progress) -> update (completed)
//
// Annotations are sent in FIFO batches of at most [MaxAnnotationsPerRequest];
// every update carries a summary of the build's total counts. Update calls
// are strictly sequential and the completed status is always the last call.
// If an update fails the run is cancelled once, best effort, and the
// original error is returned.
//
// When the check run cannot be created from a forked pull request (the
// token has no write access there), annotations go to a [Sink] instead and
// the build outcome is decided from the counts alone.
package check

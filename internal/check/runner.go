package check

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dshills/clippycheck/internal/diagnostic"
	"github.com/dshills/clippycheck/internal/render"
)

var (
	// ErrDiagnosticsFailed is returned by the fallback path when the build
	// produced errors or internal compiler errors.
	ErrDiagnosticsFailed = errors.New("exiting due to clippy errors")

	// ErrAlreadyReported is returned when Report is called on a Runner that
	// already reached a terminal state.
	ErrAlreadyReported = errors.New("check run already reported")
)

const forkIssueURL = "https://github.com/actions-rs/clippy-check/issues/2"

// Runner reports one build's diagnostics to a Service. It takes ownership
// of the collected annotations and drains them as they are sent.
type Runner struct {
	svc    Service
	sink   Sink
	logger *zap.SugaredLogger
	now    func() time.Time

	stats diagnostic.Stats
	queue []diagnostic.Annotation
	state State
	runID int64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithSink sets the fallback sink used when the check run cannot be created.
func WithSink(s Sink) RunnerOption {
	return func(r *Runner) { r.sink = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithClock overrides time.Now for completion timestamps.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner builds a Runner from a collector's results.
func NewRunner(c *Collector, svc Service, opts ...RunnerOption) *Runner {
	r := &Runner{
		svc:   svc,
		now:   time.Now,
		stats: c.Stats(),
		queue: c.Annotations(),
	}
	for _, o := range opts {
		o(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop().Sugar()
	}
	if r.sink == nil {
		r.sink = NewLogSink(r.logger)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return r.state
}

// CheckRunID returns the id of the created check run, or zero.
func (r *Runner) CheckRunID() int64 {
	return r.runID
}

// Pending returns the number of annotations not yet sent.
func (r *Runner) Pending() int {
	return len(r.queue)
}

// Report creates the check run and drives it to a terminal state.
func (r *Runner) Report(ctx context.Context, opts Options) error {
	if r.state != StateIdle {
		return ErrAlreadyReported
	}

	r.logger.Infof("Clippy results: %d ICE, %d errors, %d warnings, %d notes, %d help",
		r.stats.ICE, r.stats.Error, r.stats.Warning, r.stats.Note, r.stats.Help)

	id, err := r.svc.Create(ctx, CreateRequest{
		Owner:     opts.Owner,
		Repo:      opts.Repo,
		Name:      opts.Name,
		HeadSHA:   opts.HeadSHA,
		Status:    StatusInProgress,
		StartedAt: opts.StartedAt,
	})
	if err != nil {
		if opts.Fork {
			return r.fallback(err)
		}
		r.state = StateAborted
		return errors.Wrap(err, "creating check run")
	}
	r.runID = id
	r.state = StateCreated
	r.logger.Debugw("Created check run", "id", id)

	if r.stats.IsClean() {
		err = r.complete(ctx, opts)
	} else {
		err = r.batches(ctx, opts)
	}
	if err != nil {
		return r.cancel(ctx, opts, err)
	}
	return nil
}

// fallback dumps annotations to the sink after the check run could not be
// created, and decides the outcome from the counts alone.
func (r *Runner) fallback(createErr error) error {
	r.state = StateFallback
	r.logger.Errorf("Unable to create clippy annotations! Reason: %v", createErr)
	r.logger.Warn("It seems that this Action is executed from the forked repository.")
	r.logger.Warnf("GitHub Actions are not allowed to create Check annotations, "+
		"when executed for a forked repos. See %s for details.", forkIssueURL)
	r.logger.Info("Posting clippy checks here instead.")

	for _, a := range r.queue {
		r.sink.Emit(a)
	}
	r.queue = nil

	if ConclusionFor(r.stats) == ConclusionFailure {
		return errors.WithHint(ErrDiagnosticsFailed,
			"check run creation is not permitted for forked pull requests; see the job log for annotations")
	}
	return nil
}

// complete issues the single terminal update used when nothing was found.
func (r *Runner) complete(ctx context.Context, opts Options) error {
	conclusion := ConclusionFor(r.stats)
	req := r.request(opts)
	req.Status = StatusCompleted
	req.Conclusion = conclusion
	req.CompletedAt = r.now()

	if err := r.svc.Update(ctx, req); err != nil {
		return errors.Wrap(err, "completing check run")
	}
	r.finish(conclusion)
	return nil
}

// batches sends the annotations in FIFO batches. The last update, and only
// the last, marks the run completed.
func (r *Runner) batches(ctx context.Context, opts Options) error {
	r.state = StateReporting
	for {
		batch := r.nextBatch()
		r.logger.Debugw("Prepared next annotations batch", "size", len(batch), "remaining", len(r.queue))

		req := r.request(opts)
		req.Output.Annotations = batch

		last := len(r.queue) == 0
		if last {
			req.Status = StatusCompleted
			req.Conclusion = ConclusionFor(r.stats)
			req.CompletedAt = r.now()
			r.logger.Debugf("This is the last batch, marking check as %q, conclusion: %s", req.Status, req.Conclusion)
		} else {
			req.Status = StatusInProgress
			r.logger.Debugf("This is not the last batch, marking check as %q", req.Status)
		}

		if err := r.svc.Update(ctx, req); err != nil {
			return errors.Wrapf(err, "updating check run with %d annotations", len(batch))
		}
		if last {
			r.finish(req.Conclusion)
			return nil
		}
	}
}

// cancel marks the run cancelled after an unhandled error and returns
// cause. The update is detached from ctx so it is still sent when ctx was
// cancelled by a signal. A failed cancel is logged and attached to cause
// as a secondary error, never returned in its place.
func (r *Runner) cancel(ctx context.Context, opts Options, cause error) error {
	req := UpdateRequest{
		Owner:       opts.Owner,
		Repo:        opts.Repo,
		Name:        opts.Name,
		CheckRunID:  r.runID,
		Status:      StatusCompleted,
		Conclusion:  ConclusionCancelled,
		CompletedAt: r.now(),
		Output: Output{
			Title:   opts.Name,
			Summary: render.CancelSummary,
			Text:    render.CancelText,
		},
	}
	r.state = StateCancelled
	if err := r.svc.Update(context.WithoutCancel(ctx), req); err != nil {
		r.logger.Errorw("Unable to cancel check run", "id", r.runID, "error", err)
		return errors.WithSecondaryError(cause, err)
	}
	return cause
}

func (r *Runner) request(opts Options) UpdateRequest {
	return UpdateRequest{
		Owner:      opts.Owner,
		Repo:       opts.Repo,
		Name:       opts.Name,
		CheckRunID: r.runID,
		Output: Output{
			Title:   opts.Name,
			Summary: render.Summary(r.stats),
			Text:    render.Text(r.stats, opts.Context),
		},
	}
}

func (r *Runner) nextBatch() []diagnostic.Annotation {
	n := min(len(r.queue), MaxAnnotationsPerRequest)
	batch := r.queue[:n:n]
	r.queue = r.queue[n:]
	return batch
}

func (r *Runner) finish(c Conclusion) {
	if c == ConclusionFailure {
		r.state = StateFailed
	} else {
		r.state = StateSucceeded
	}
}

package check

import (
	"context"
	"time"

	"github.com/dshills/clippycheck/internal/diagnostic"
	"github.com/dshills/clippycheck/internal/render"
)

// MaxAnnotationsPerRequest is the Checks API limit on annotations per call.
const MaxAnnotationsPerRequest = 50

// Status is the lifecycle status of a check run.
type Status int

const (
	StatusInProgress Status = iota + 1
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status using the Checks API names.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Conclusion is the final outcome of a completed check run. Success and
// Failure are ordered so the worse of two outcomes is the larger value.
type Conclusion int

const (
	ConclusionNone Conclusion = iota
	ConclusionSuccess
	ConclusionFailure
	ConclusionCancelled
)

func (c Conclusion) String() string {
	switch c {
	case ConclusionSuccess:
		return "success"
	case ConclusionFailure:
		return "failure"
	case ConclusionCancelled:
		return "cancelled"
	default:
		return ""
	}
}

// MarshalText encodes the conclusion using the Checks API names.
func (c Conclusion) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ConclusionFor derives the conclusion of a build from its counts: failure
// iff any error or internal compiler error was seen.
func ConclusionFor(s diagnostic.Stats) Conclusion {
	if s.Failed() {
		return ConclusionFailure
	}
	return ConclusionSuccess
}

// CreateRequest opens a new check run.
type CreateRequest struct {
	Owner     string
	Repo      string
	Name      string
	HeadSHA   string
	Status    Status
	StartedAt time.Time
}

// UpdateRequest changes the status or output of an existing check run.
// Conclusion and CompletedAt are only set with StatusCompleted.
type UpdateRequest struct {
	Owner       string
	Repo        string
	Name        string
	CheckRunID  int64
	Status      Status
	Conclusion  Conclusion
	CompletedAt time.Time
	Output      Output
}

// Output is the report attached to a check run update.
type Output struct {
	Title       string
	Summary     string
	Text        string
	Annotations []diagnostic.Annotation
}

// Service is the remote check-run API.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (int64, error)
	Update(ctx context.Context, req UpdateRequest) error
}

// Sink receives annotations when they cannot be reported remotely.
type Sink interface {
	Emit(a diagnostic.Annotation)
}

// Options identifies the check run and the build being reported.
type Options struct {
	Owner     string
	Repo      string
	Name      string
	HeadSHA   string
	StartedAt time.Time
	Context   render.Context

	// Fork is true when running for a pull request from a forked
	// repository, where the token cannot create check runs.
	Fork bool
}

// State is the position of a Runner in the check-run lifecycle.
type State int

const (
	StateIdle State = iota
	StateCreated
	StateReporting
	StateSucceeded
	StateFailed
	StateCancelled
	StateFallback
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCreated:
		return "created"
	case StateReporting:
		return "reporting"
	case StateSucceeded:
		return "completed(success)"
	case StateFailed:
		return "completed(failure)"
	case StateCancelled:
		return "cancelled"
	case StateFallback:
		return "fallback"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s >= StateSucceeded
}

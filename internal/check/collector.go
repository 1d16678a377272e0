package check

import (
	"bufio"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dshills/clippycheck/internal/diagnostic"
)

// maxLineBytes bounds a single line of cargo output. Rendered diagnostics
// with long source excerpts easily exceed bufio's 64 KiB default.
const maxLineBytes = 16 << 20

// Collector accumulates the counts and annotations of a single build.
// It is not safe for concurrent use; lines must be pushed in arrival order.
type Collector struct {
	stats       diagnostic.Stats
	annotations []diagnostic.Annotation
	logger      *zap.SugaredLogger
}

// NewCollector returns an empty collector. A nil logger discards output.
func NewCollector(logger *zap.SugaredLogger) *Collector {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Collector{logger: logger}
}

// TryPush processes one line of cargo output. Lines that are not compiler
// diagnostics are ignored. The only error is a diagnostic without a
// primary span, which callers must treat as fatal.
func (c *Collector) TryPush(line string) error {
	rec, ok := diagnostic.ParseLine(line)
	if !ok {
		c.logger.Debugw("Ignoring non-diagnostic line", "line", truncate(line, 120))
		return nil
	}

	annotation, err := diagnostic.NewAnnotation(rec)
	if err != nil {
		return err
	}

	c.stats.Add(rec.Level())
	c.annotations = append(c.annotations, annotation)
	return nil
}

// Consume pushes every newline-delimited line of r. It stops at the first
// fatal diagnostic error or read error.
func (c *Collector) Consume(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := c.TryPush(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading diagnostics")
	}
	return nil
}

// Stats returns the current counts.
func (c *Collector) Stats() diagnostic.Stats {
	return c.stats
}

// Annotations returns a copy of the collected annotations in discovery order.
func (c *Collector) Annotations() []diagnostic.Annotation {
	out := make([]diagnostic.Annotation, len(c.annotations))
	copy(out, c.annotations)
	return out
}

// Len returns the number of collected annotations.
func (c *Collector) Len() int {
	return len(c.annotations)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

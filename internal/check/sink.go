package check

import (
	"go.uber.org/zap"

	"github.com/dshills/clippycheck/internal/diagnostic"
)

// LogSink writes the rendered message of each annotation as a plain log line.
type LogSink struct {
	logger *zap.SugaredLogger
}

// NewLogSink returns a sink writing to logger.
func NewLogSink(logger *zap.SugaredLogger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs the annotation's rendered message.
func (s *LogSink) Emit(a diagnostic.Annotation) {
	s.logger.Info(a.Message)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(diagnostic.Annotation)

// Emit calls f(a).
func (f SinkFunc) Emit(a diagnostic.Annotation) { f(a) }

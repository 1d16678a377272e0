package github

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/dshills/clippycheck/internal/check"
	"github.com/dshills/clippycheck/internal/diagnostic"
)

// CommandSink writes annotations as workflow commands
// (::warning file=...,line=...::message) that the Actions runner turns
// into annotations on the job.
type CommandSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewCommandSink returns a sink writing commands to w.
func NewCommandSink(w io.Writer) *CommandSink {
	return &CommandSink{w: w}
}

var _ check.Sink = (*CommandSink)(nil)

// Emit implements check.Sink.
func (s *CommandSink) Emit(a diagnostic.Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, FormatCommand(a))
}

// FormatCommand renders a as a single workflow command line.
func FormatCommand(a diagnostic.Annotation) string {
	props := []string{
		"file=" + escapeProperty(a.Path),
		fmt.Sprintf("line=%d", a.StartLine),
		fmt.Sprintf("endLine=%d", a.EndLine),
	}
	if a.HasColumns() {
		props = append(props,
			fmt.Sprintf("col=%d", *a.StartColumn),
			fmt.Sprintf("endColumn=%d", *a.EndColumn))
	}
	if a.Title != "" {
		props = append(props, "title="+escapeProperty(a.Title))
	}
	return fmt.Sprintf("::%s %s::%s", commandName(a.Level), strings.Join(props, ","), escapeData(a.Message))
}

func commandName(l diagnostic.AnnotationLevel) string {
	switch l {
	case diagnostic.Notice:
		return "notice"
	case diagnostic.Warning:
		return "warning"
	default:
		return "error"
	}
}

var (
	dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

func escapeData(s string) string     { return dataEscaper.Replace(s) }
func escapeProperty(s string) string { return propEscaper.Replace(s) }

// AppendStepSummary appends markdown to the job summary file.
func AppendStepSummary(path, markdown string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "opening step summary")
	}
	defer f.Close()
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	if _, err := f.WriteString(markdown); err != nil {
		return errors.Wrap(err, "writing step summary")
	}
	return nil
}

package output

import (
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dshills/clippycheck/internal/check"
	"github.com/dshills/clippycheck/internal/diagnostic"
	"github.com/dshills/clippycheck/internal/render"
)

// Report is the local rendition of a check run.
type Report struct {
	Tool        string           `json:"tool"`
	Version     string           `json:"version"`
	RunID       string           `json:"runId"`
	Name        string           `json:"name"`
	Source      string           `json:"source,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Conclusion  string           `json:"conclusion"`
	Summary     string           `json:"summary"`
	Stats       diagnostic.Stats `json:"stats"`
	Context     render.Context   `json:"context"`
	Findings    []Finding        `json:"findings"`
}

// Finding is an annotation together with its lint code.
type Finding struct {
	Code string `json:"code,omitempty"`
	diagnostic.Annotation
}

// ReportOptions describes where a report came from.
type ReportOptions struct {
	Tool    string
	Version string
	Name    string
	Source  string
	Context render.Context
	Now     func() time.Time
}

// NewReport builds a report from the collected stats and annotations.
func NewReport(opts ReportOptions, stats diagnostic.Stats, annotations []diagnostic.Annotation) *Report {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	findings := make([]Finding, 0, len(annotations))
	for _, a := range annotations {
		findings = append(findings, Finding{Code: a.Code, Annotation: a})
	}
	return &Report{
		Tool:        opts.Tool,
		Version:     opts.Version,
		RunID:       uuid.NewString(),
		Name:        opts.Name,
		Source:      opts.Source,
		GeneratedAt: now().UTC(),
		Conclusion:  check.ConclusionFor(stats).String(),
		Summary:     render.Summary(stats),
		Stats:       stats,
		Context:     opts.Context,
		Findings:    findings,
	}
}

// Failed reports whether the report concludes with failure.
func (r *Report) Failed() bool {
	return r.Stats.Failed()
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// Formats lists the supported format names.
var Formats = []string{"text", "json", "markdown", "sarif"}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "sarif":
		return &SARIFWriter{}, nil
	default:
		return nil, errors.Newf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, report)
}

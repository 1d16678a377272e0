package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/dshills/clippycheck/internal/diagnostic"
)

var (
	failureColor = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noticeColor  = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen, color.Bold)
)

// levelOrder lists annotation levels from most to least severe.
var levelOrder = []diagnostic.AnnotationLevel{diagnostic.Failure, diagnostic.Warning, diagnostic.Notice}

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.printf("%s: %s\n", report.Name, conclusionLabel(report.Conclusion))
	if report.Source != "" {
		ew.printf("Source: %s\n", report.Source)
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Findings: %d total", len(report.Findings))
	if report.Summary != "" {
		ew.printf(" (%s)", report.Summary)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if len(report.Findings) == 0 {
		ew.println("\nNo problems found.")
	}

	grouped := groupByLevel(report.Findings)
	for _, level := range levelOrder {
		findings := grouped[level]
		if len(findings) == 0 {
			continue
		}

		ew.printf("\n%s (%d)\n", levelTag(level), len(findings))
		ew.println(strings.Repeat("─", 40))

		// Sort by file path within a level; diagnostics in the same file
		// keep the order clippy produced them in.
		sort.SliceStable(findings, func(i, j int) bool {
			return findings[i].Path < findings[j].Path
		})

		for _, f := range findings {
			ew.printf("\n  %s  %s", location(f.Annotation), f.Title)
			if f.Code != "" {
				ew.printf(" [%s]", f.Code)
			}
			ew.println("")
			for _, line := range strings.Split(strings.TrimRight(f.Message, "\n"), "\n") {
				ew.printf("    %s\n", line)
			}
		}
	}

	if !report.Context.IsZero() {
		ew.printf("\n%s\n", strings.Repeat("─", 60))
		for _, v := range []string{report.Context.Rustc, report.Context.Cargo, report.Context.Clippy} {
			if v != "" {
				ew.printf("%s\n", v)
			}
		}
	}

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func groupByLevel(findings []Finding) map[diagnostic.AnnotationLevel][]Finding {
	m := make(map[diagnostic.AnnotationLevel][]Finding)
	for _, f := range findings {
		m[f.Level] = append(m[f.Level], f)
	}
	return m
}

func location(a diagnostic.Annotation) string {
	if a.HasColumns() {
		return fmt.Sprintf("%s:%d:%d", a.Path, a.StartLine, *a.StartColumn)
	}
	if a.StartLine == a.EndLine {
		return fmt.Sprintf("%s:%d", a.Path, a.StartLine)
	}
	return fmt.Sprintf("%s:%d-%d", a.Path, a.StartLine, a.EndLine)
}

func levelTag(l diagnostic.AnnotationLevel) string {
	switch l {
	case diagnostic.Failure:
		return failureColor.Sprint("[error]")
	case diagnostic.Warning:
		return warningColor.Sprint("[warning]")
	default:
		return noticeColor.Sprint("[notice]")
	}
}

func conclusionLabel(c string) string {
	if c == "failure" {
		return failureColor.Sprint(c)
	}
	return successColor.Sprint(c)
}

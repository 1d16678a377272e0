package output

import (
	"io"
	"strings"

	"github.com/dshills/clippycheck/internal/diagnostic"
	"github.com/dshills/clippycheck/internal/render"
)

// MarkdownWriter outputs the check-run body as markdown, followed by the
// findings in collapsible sections.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.printf("# %s\n\n", report.Name)
	if report.Summary != "" {
		ew.printf("**%s**\n\n", report.Summary)
	}
	ew.printf("%s\n", render.Text(report.Stats, report.Context))

	if len(report.Findings) == 0 {
		ew.println("No problems found. :white_check_mark:")
		return ew.err
	}

	grouped := groupByLevel(report.Findings)
	for _, level := range levelOrder {
		findings := grouped[level]
		if len(findings) == 0 {
			continue
		}

		ew.printf("<details>\n<summary>%s %s (%d)</summary>\n\n", mdLevelIcon(level), strings.ToUpper(level.String()), len(findings))
		for _, f := range findings {
			ew.printf("### %s\n\n", f.Title)
			ew.printf("**`%s`**", location(f.Annotation))
			if f.Code != "" {
				ew.printf(" | `%s`", f.Code)
			}
			ew.println("\n")
			ew.printf("```text\n%s\n```\n\n", strings.TrimRight(f.Message, "\n"))
		}
		ew.printf("</details>\n\n")
	}

	return ew.err
}

func mdLevelIcon(l diagnostic.AnnotationLevel) string {
	switch l {
	case diagnostic.Failure:
		return ":red_circle:"
	case diagnostic.Warning:
		return ":orange_circle:"
	default:
		return ":large_blue_circle:"
	}
}

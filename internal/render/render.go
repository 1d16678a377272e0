package render

import (
	"fmt"
	"strings"

	"github.com/dshills/clippycheck/internal/diagnostic"
)

// Summary and text used when a check run is cancelled.
const (
	CancelSummary = "Unhandled error"
	CancelText    = "Check was cancelled due to unhandled error. Check the Action logs for details."
)

// Context holds the tool versions reported in the check-run body.
type Context struct {
	Rustc  string `json:"rustc"`
	Cargo  string `json:"cargo"`
	Clippy string `json:"clippy"`
}

// IsZero reports whether no version is known.
func (c Context) IsZero() bool {
	return c == Context{}
}

// Summary returns a comma-separated list of the non-zero counters,
// e.g. "2 errors, 1 warning". It is empty when nothing was counted.
func Summary(s diagnostic.Stats) string {
	var blocks []string
	add := func(n int, noun string) {
		if n > 0 {
			blocks = append(blocks, fmt.Sprintf("%d %s%s", n, noun, Plural(n)))
		}
	}
	add(s.ICE, "internal compiler error")
	add(s.Error, "error")
	add(s.Warning, "warning")
	add(s.Note, "note")
	add(s.Help, "help message")
	return strings.Join(blocks, ", ")
}

// Text returns the Markdown body with a results table and the tool versions.
// The versions section is left out when ctx is empty.
func Text(s diagnostic.Stats, ctx Context) string {
	var b strings.Builder
	b.WriteString("## Results\n\n")
	b.WriteString("| Message level           | Amount                |\n")
	b.WriteString("| ----------------------- | --------------------- |\n")
	fmt.Fprintf(&b, "| Internal compiler error | %d     |\n", s.ICE)
	fmt.Fprintf(&b, "| Error                   | %d   |\n", s.Error)
	fmt.Fprintf(&b, "| Warning                 | %d |\n", s.Warning)
	fmt.Fprintf(&b, "| Note                    | %d    |\n", s.Note)
	fmt.Fprintf(&b, "| Help                    | %d    |\n", s.Help)
	if ctx.IsZero() {
		return b.String()
	}
	b.WriteString("\n## Versions\n\n")
	for _, v := range []string{ctx.Rustc, ctx.Cargo, ctx.Clippy} {
		if v != "" {
			fmt.Fprintf(&b, "* %s\n", v)
		}
	}
	return b.String()
}

// Plural returns "s" unless n is exactly one.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dshills/clippycheck/internal/diagnostic"
)

const (
	sarifSchema        = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
	clippyLintsURI     = "https://rust-lang.github.io/rust-clippy/master/index.html"
	rustcErrorIndexURI = "https://doc.rust-lang.org/error_codes/"
)

// SARIFWriter outputs findings in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling SARIF")
	}
	_, err = w.Write(data)
	if err != nil {
		return errors.Wrap(err, "writing SARIF")
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	HelpURI          string             `json:"helpUri,omitempty"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	EndLine     int `json:"endLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

func buildSARIF(report *Report) sarifLog {
	var rules []sarifRule
	seen := make(map[string]bool)
	results := make([]sarifResult, 0, len(report.Findings))

	for _, f := range report.Findings {
		ruleID := ruleIDFor(f)

		// Rules are registered in order of first appearance.
		if !seen[ruleID] {
			seen[ruleID] = true
			rules = append(rules, sarifRule{
				ID:               ruleID,
				Name:             ruleName(ruleID),
				ShortDescription: sarifMessage{Text: f.Title},
				HelpURI:          helpURI(f.Code),
				DefaultConfig:    sarifDefaultConfig{Level: levelToSARIF(f.Level)},
			})
		}

		region := sarifRegion{StartLine: f.StartLine, EndLine: f.EndLine}
		if f.HasColumns() {
			region.StartColumn = *f.StartColumn
			region.EndColumn = *f.EndColumn
		}

		results = append(results, sarifResult{
			RuleID:  ruleID,
			Level:   levelToSARIF(f.Level),
			Message: sarifMessage{Text: f.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.Path},
					Region:           region,
				},
			}},
		})
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  sarifSchema,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "clippy",
						Version:        report.Context.Clippy,
						InformationURI: "https://github.com/rust-lang/rust-clippy",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// levelToSARIF maps annotation levels to SARIF result levels.
func levelToSARIF(l diagnostic.AnnotationLevel) string {
	switch l {
	case diagnostic.Failure:
		return "error"
	case diagnostic.Warning:
		return "warning"
	default:
		return "note"
	}
}

func ruleIDFor(f Finding) string {
	if f.Code != "" {
		return f.Code
	}
	return "clippycheck/uncoded"
}

func ruleName(id string) string {
	if i := strings.LastIndex(id, "::"); i >= 0 {
		return id[i+2:]
	}
	return id
}

// helpURI points clippy lints at the lint list and rustc codes at the
// error index.
func helpURI(code string) string {
	switch {
	case strings.HasPrefix(code, "clippy::"):
		return clippyLintsURI + "#" + strings.TrimPrefix(code, "clippy::")
	case len(code) == 5 && code[0] == 'E':
		return rustcErrorIndexURI + code + ".html"
	default:
		return ""
	}
}

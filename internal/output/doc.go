// Package output formats local clippy reports for display or machine consumption.
//
// Four formats are supported:
//   - text     - human-readable terminal output (default)
//   - json     - full structured JSON report
//   - markdown - job-summary friendly, with the results table and collapsible findings
//   - sarif    - SARIF v2.1.0 for upload to GitHub code scanning and other CI tools
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*Report]. [WriteReport] handles
// destination selection.
package output

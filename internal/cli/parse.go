package cli

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dshills/clippycheck/internal/check"
	"github.com/dshills/clippycheck/internal/logging"
	"github.com/dshills/clippycheck/internal/output"
)

// Parse flags
var (
	flagFormat    string
	flagOut       string
	flagParseName string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Summarize saved clippy JSON output without contacting GitHub",
	Long: "Read the output of `cargo clippy --message-format=json` from a file or stdin " +
		"and write a local report. Exits 1 when the diagnostics contain errors.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := output.GetWriter(flagFormat); err != nil {
			return err
		}

		source := "-"
		if len(args) == 1 {
			source = args[0]
		}
		exitCode = executeParse(source, cmd.InOrStdin(), cmd.ErrOrStderr())
		return nil
	},
}

// executeParse reads diagnostics from source ("-" for stdin) and writes the
// local report.
func executeParse(source string, stdin io.Reader, stderr io.Writer) int {
	logger, err := logging.New(logging.Options{Debug: flagDebug, JSON: flagJSONLogs, Output: stderr})
	if err != nil {
		printError(stderr, err)
		return ExitRuntimeError
	}

	in := stdin
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			printError(stderr, errors.Wrap(err, "opening diagnostics"))
			return ExitRuntimeError
		}
		defer f.Close()
		in = f
	}

	collector := check.NewCollector(logger)
	if err := collector.Consume(in); err != nil {
		printError(stderr, err)
		return ExitRuntimeError
	}

	name := flagParseName
	if name == "" {
		name = "clippy"
	}
	report := output.NewReport(output.ReportOptions{
		Tool:    "clippycheck",
		Version: version,
		Name:    name,
		Source:  source,
	}, collector.Stats(), collector.Annotations())

	if err := output.WriteReport(report, flagFormat, flagOut); err != nil {
		printError(stderr, errors.Wrap(err, "writing report"))
		return ExitRuntimeError
	}

	if report.Failed() {
		return ExitFindings
	}
	return ExitSuccess
}

func init() {
	parseCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json, markdown, sarif)")
	parseCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	parseCmd.Flags().StringVar(&flagParseName, "name", "", "Report name (default: clippy)")
}

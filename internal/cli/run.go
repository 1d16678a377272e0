package cli

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/clippycheck/internal/cargo"
	"github.com/dshills/clippycheck/internal/check"
	"github.com/dshills/clippycheck/internal/config"
	"github.com/dshills/clippycheck/internal/github"
	"github.com/dshills/clippycheck/internal/logging"
	"github.com/dshills/clippycheck/internal/render"
)

// Run flags
var (
	flagToken        string
	flagToolchain    string
	flagArgs         string
	flagUseCross     bool
	flagName         string
	flagManifestPath string
	flagFallback     string
	flagRateLimit    float64
	flagAPIURL       string
	flagOwner        string
	flagRepo         string
	flagSHA          string
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagToken, "token", "", "GitHub token (default: INPUT_TOKEN or GITHUB_TOKEN)")
	cmd.Flags().StringVar(&flagToolchain, "toolchain", "", "Rust toolchain to run clippy with (e.g. nightly)")
	cmd.Flags().StringVar(&flagArgs, "args", "", "Extra clippy arguments, shell quoted")
	cmd.Flags().BoolVar(&flagUseCross, "use-cross", false, "Run clippy through cross instead of cargo")
	cmd.Flags().StringVar(&flagName, "name", "", "Check run name (default: clippy)")
	cmd.Flags().StringVar(&flagManifestPath, "manifest-path", "", "Path to Cargo.toml")
	cmd.Flags().StringVar(&flagFallback, "fallback", "", "Annotation output when no check run can be created (log, commands)")
	cmd.Flags().Float64Var(&flagRateLimit, "rate-limit", 0, "GitHub API requests per second (0 disables pacing)")
	cmd.Flags().StringVar(&flagAPIURL, "api-url", "", "GitHub API base URL")
	cmd.Flags().StringVar(&flagOwner, "owner", "", "Repository owner (default: GITHUB_REPOSITORY or git remote)")
	cmd.Flags().StringVar(&flagRepo, "repo", "", "Repository name (default: GITHUB_REPOSITORY or git remote)")
	cmd.Flags().StringVar(&flagSHA, "sha", "", "Commit to attach the check run to")
}

// buildOverrides collects the flags set on cmd. --rate-limit is passed on
// whenever it was given, since zero disables pacing.
func buildOverrides(cmd *cobra.Command) map[string]string {
	m := make(map[string]string)
	if flagToken != "" {
		m["token"] = flagToken
	}
	if flagToolchain != "" {
		m["toolchain"] = flagToolchain
	}
	if flagArgs != "" {
		m["args"] = flagArgs
	}
	if flagUseCross {
		m["use-cross"] = "true"
	}
	if flagName != "" {
		m["name"] = flagName
	}
	if flagManifestPath != "" {
		m["manifest-path"] = flagManifestPath
	}
	if flagFallback != "" {
		m["fallback"] = flagFallback
	}
	if cmd.Flags().Changed("rate-limit") {
		m["rate-limit"] = strconv.FormatFloat(flagRateLimit, 'f', -1, 64)
	}
	if flagAPIURL != "" {
		m["api-url"] = flagAPIURL
	}
	if flagDebug {
		m["debug"] = "true"
	}
	if flagJSONLogs {
		m["json-logs"] = "true"
	}
	return m
}

// envLookup layers the --owner, --repo and --sha flags over the process
// environment.
func envLookup(key string) (string, bool) {
	switch key {
	case "GITHUB_REPOSITORY":
		if flagOwner != "" && flagRepo != "" {
			return flagOwner + "/" + flagRepo, true
		}
	case "GITHUB_SHA":
		if flagSHA != "" {
			return flagSHA, true
		}
	}
	return os.LookupEnv(key)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run clippy and publish a check run (default)",
	Args:  cobra.NoArgs,
	RunE:  runE,
}

func runE(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig, buildOverrides(cmd))
	if err != nil {
		return err
	}

	env, err := github.LoadEnvFrom(envLookup)
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		exitCode = ExitUsageError
		return nil
	}
	if flagSHA != "" {
		env.SHA = flagSHA
	}

	logger, err := logging.New(logging.Options{Debug: cfg.Debug || env.Debug, JSON: cfg.JSONLogs})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = env.APIURL
	}
	client, err := github.NewClient(github.Config{
		Token:             cfg.Token,
		APIURL:            apiURL,
		UserAgent:         userAgent,
		RequestsPerSecond: cfg.RateLimit,
		Logger:            logger,
	})
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		exitCode = ExitAuthError
		return nil
	}

	clippy, err := cargo.New(cargo.Options{
		UseCross:     cfg.UseCross,
		Toolchain:    cfg.Toolchain,
		ManifestPath: cfg.ManifestPath,
		Args:         cfg.Args,
		Logger:       logger,
	})
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		exitCode = ExitUsageError
		return nil
	}

	exitCode = executeRun(cmd.Context(), runDeps{
		cfg:     cfg,
		env:     env,
		clippy:  clippy,
		service: github.NewCheckService(client),
		stdout:  cmd.OutOrStdout(),
		stderr:  cmd.ErrOrStderr(),
		logger:  logger,
		now:     time.Now,
	})
	return nil
}

// clippyRunner runs clippy and the version probes.
type clippyRunner interface {
	Run(ctx context.Context, onLine func(string) error) (int, error)
	Versions(ctx context.Context) (render.Context, error)
}

type runDeps struct {
	cfg     config.Config
	env     github.Env
	clippy  clippyRunner
	service check.Service
	stdout  io.Writer
	stderr  io.Writer
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// executeRun runs clippy, reports the diagnostics and returns the exit code.
func executeRun(ctx context.Context, d runDeps) int {
	startedAt := d.now()

	versions, err := d.clippy.Versions(ctx)
	if err != nil {
		printError(d.stderr, errors.Wrap(err, "collecting tool versions"))
		return ExitRuntimeError
	}

	collector := check.NewCollector(d.logger)
	clippyExit, err := d.clippy.Run(ctx, collector.TryPush)
	if err != nil {
		printError(d.stderr, err)
		return ExitRuntimeError
	}

	var sink check.Sink = check.NewLogSink(d.logger)
	if d.cfg.Fallback == config.FallbackCommands {
		sink = github.NewCommandSink(d.stdout)
	}

	runner := check.NewRunner(collector, d.service,
		check.WithSink(sink),
		check.WithLogger(d.logger),
		check.WithClock(d.now))
	reportErr := runner.Report(ctx, check.Options{
		Owner:     d.env.Owner,
		Repo:      d.env.Repo,
		Name:      d.cfg.Name,
		HeadSHA:   d.env.SHA,
		StartedAt: startedAt,
		Context:   versions,
		Fork:      d.env.IsFork(),
	})
	if id := runner.CheckRunID(); id != 0 {
		d.logger.Infow("Check run reported", "id", id, "state", runner.State().String())
	}

	if d.env.StepSummary != "" {
		body := "# " + d.cfg.Name + "\n\n" + render.Text(collector.Stats(), versions)
		if err := github.AppendStepSummary(d.env.StepSummary, body); err != nil {
			d.logger.Warnw("Unable to write job summary", "error", err)
		}
	}

	if reportErr != nil {
		printError(d.stderr, reportErr)
		switch {
		case errors.Is(reportErr, check.ErrDiagnosticsFailed):
			return ExitFindings
		case github.IsAuthError(reportErr):
			return ExitAuthError
		default:
			return ExitRuntimeError
		}
	}

	if clippyExit != 0 {
		printError(d.stderr, &cargo.ExitError{Code: clippyExit})
		return ExitFindings
	}
	return ExitSuccess
}

func init() {
	addRunFlags(rootCmd)
	addRunFlags(runCmd)
}

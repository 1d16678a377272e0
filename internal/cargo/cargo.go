package cargo

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/dshills/clippycheck/internal/render"
)

// Programs that can run clippy.
const (
	ProgramCargo = "cargo"
	ProgramCross = "cross"
)

// maxLineBytes bounds a single diagnostic line. Rendered messages for
// macro-heavy code can run to several hundred kilobytes.
const maxLineBytes = 16 << 20

// ErrExitCode matches any ExitError.
var ErrExitCode = errors.New("clippy exited with a non-zero code")

// ExitError reports a non-zero clippy exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("clippy had exited with the %d exit code", e.Code)
}

// Is matches ErrExitCode.
func (e *ExitError) Is(target error) bool {
	return target == ErrExitCode
}

// Options configures a Runner.
type Options struct {
	UseCross     bool
	Toolchain    string
	ManifestPath string
	// Args holds extra clippy arguments in shell syntax, e.g.
	// "--all-features -- -D warnings".
	Args string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Stderr receives the child's standard error. Defaults to os.Stderr.
	Stderr io.Writer
	Logger *zap.SugaredLogger
}

// Runner invokes clippy and the version probes.
type Runner struct {
	program      string
	toolchain    string
	manifestPath string
	userArgs     []string
	dir          string
	stderr       io.Writer
	logger       *zap.SugaredLogger

	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New validates opts and returns a Runner.
func New(opts Options) (*Runner, error) {
	userArgs, err := shellquote.Split(opts.Args)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing clippy args %q", opts.Args)
	}

	program := ProgramCargo
	if opts.UseCross {
		program = ProgramCross
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Runner{
		program:      program,
		toolchain:    strings.TrimPrefix(opts.Toolchain, "+"),
		manifestPath: opts.ManifestPath,
		userArgs:     userArgs,
		dir:          opts.Dir,
		stderr:       stderr,
		logger:       logger,
		command:      exec.CommandContext,
	}, nil
}

// Program returns the executable that runs clippy.
func (r *Runner) Program() string {
	return r.program
}

// Args returns the clippy command line. The toolchain selector must come
// first, and --message-format directly after clippy, since user arguments
// usually end with "-- -D warnings".
func (r *Runner) Args() []string {
	var args []string
	if r.toolchain != "" {
		args = append(args, "+"+r.toolchain)
	}
	args = append(args, "clippy", "--message-format=json")
	if r.manifestPath != "" {
		args = append(args, "--manifest-path", r.manifestPath)
	}
	return append(args, r.userArgs...)
}

// Run executes clippy and calls onLine for every stdout line in order.
// Standard error passes through. If onLine fails, the remaining output is
// drained without callbacks and the first error is returned after the
// process exits. A non-zero exit is reported through exitCode, not err.
func (r *Runner) Run(ctx context.Context, onLine func(string) error) (exitCode int, err error) {
	args := r.Args()
	cmd := r.command(ctx, r.program, args...)
	cmd.Dir = r.dir
	cmd.Stderr = r.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, errors.Wrap(err, "creating stdout pipe")
	}

	r.logger.Infow("Executing clippy", "program", r.program, "args", args)
	if err := cmd.Start(); err != nil {
		return -1, errors.Wrapf(err, "starting %s", r.program)
	}

	var lineErr error
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if lineErr != nil {
			continue
		}
		lineErr = onLine(strings.TrimSuffix(scanner.Text(), "\r"))
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Unblock the child before waiting on it.
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()
	exitCode = cmd.ProcessState.ExitCode()
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return -1, errors.Wrapf(waitErr, "running %s", r.program)
		}
	}
	r.logger.Debugw("clippy finished", "exit_code", exitCode)

	if lineErr != nil {
		return exitCode, lineErr
	}
	if scanErr != nil {
		return exitCode, errors.Wrap(scanErr, "reading clippy output")
	}
	return exitCode, nil
}

// Versions collects the rustc, cargo and clippy version strings.
func (r *Runner) Versions(ctx context.Context) (render.Context, error) {
	var tc []string
	if r.toolchain != "" {
		tc = []string{"+" + r.toolchain}
	}

	rustc, err := r.output(ctx, "rustc", append(tc, "-V")...)
	if err != nil {
		return render.Context{}, err
	}
	cargo, err := r.output(ctx, r.program, append(tc, "-V")...)
	if err != nil {
		return render.Context{}, err
	}
	clippy, err := r.output(ctx, r.program, append(tc, "clippy", "-V")...)
	if err != nil {
		return render.Context{}, err
	}
	return render.Context{Rustc: rustc, Cargo: cargo, Clippy: clippy}, nil
}

func (r *Runner) output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := r.command(ctx, name, args...)
	cmd.Dir = r.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", errors.WithDetail(
			errors.Wrapf(err, "%s %s", name, strings.Join(args, " ")),
			strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// Package builder runs the external documentation build command. The Runner
// abstraction lets the publish pipeline swap the real subprocess execution
// (CommandRunner) for fakes in tests without changing orchestration.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	pErrors "git.home.luguber.info/inful/docpublish/internal/errors"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

// ErrNoBuildCommand is returned when the configured build argv is empty.
var ErrNoBuildCommand = errors.New("no build command configured")

// Runner executes the documentation build step in the given directory.
//
// Contract: the command inherits the process's stdout/stderr so the build
// tool's own diagnostics reach the user unmodified, and the invocation line
// is echoed before execution for traceability.
type Runner interface {
	Run(ctx context.Context, dir string) error
}

// CommandRunner invokes the configured argv as a subprocess.
type CommandRunner struct {
	argv []string
}

// NewCommandRunner creates a runner for the given argv.
func NewCommandRunner(argv []string) *CommandRunner {
	return &CommandRunner{argv: argv}
}

// Run executes the build command in dir. A non-zero exit is returned as a
// build-category error wrapping an ExitError carrying the command's status so
// the CLI can mirror it.
func (r *CommandRunner) Run(ctx context.Context, dir string) error {
	if len(r.argv) == 0 {
		return ErrNoBuildCommand
	}

	invocation := strings.Join(r.argv, " ")
	fmt.Println(invocation)
	slog.Debug("Running documentation build", logfields.Command(invocation), logfields.Path(dir))

	// #nosec G204 -- argv comes from configuration, not remote input
	cmd := exec.CommandContext(ctx, r.argv[0], r.argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return pErrors.Wrap(
				&pErrors.ExitError{Code: exitErr.ExitCode(), Err: err},
				pErrors.CategoryBuild, pErrors.SeverityFatal,
				fmt.Sprintf("documentation build failed: %s", invocation),
			)
		}
		return pErrors.Wrap(err, pErrors.CategoryBuild, pErrors.SeverityFatal,
			fmt.Sprintf("failed to start documentation build: %s", invocation))
	}

	return nil
}

// NoopRunner performs no build; useful in tests or with --skip-build when the
// docs tree was produced elsewhere.
type NoopRunner struct{}

func (NoopRunner) Run(_ context.Context, _ string) error {
	slog.Debug("NoopRunner skipping documentation build")
	return nil
}

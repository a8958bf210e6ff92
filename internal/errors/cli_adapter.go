package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ExitError carries the exit status of a failed external command so the CLI
// can mirror it, per the contract that docpublish exits with the first failing
// external command's status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error. A failed
// external command's own exit status takes precedence over the category map.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		return exitErr.Code
	}

	var pe *PublishError
	if errors.As(err, &pe) {
		return a.exitCodeFromCategory(pe)
	}

	return 1
}

// exitCodeFromCategory maps PublishError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCategory(err *PublishError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryRemote:
		return 3 // Remote configuration ambiguity
	case CategoryAuth:
		return 5 // Auth error
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryNetwork, CategoryGit:
		return 8 // External system error
	case CategoryInternal:
		return 10 // Internal error
	case CategoryBuild, CategoryFileSystem:
		return 11 // Build error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var pe *PublishError
	if errors.As(err, &pe) {
		if a.verbose {
			return pe.Error()
		}
		switch pe.Category {
		case CategoryConfig, CategoryValidation, CategoryAuth, CategoryRemote:
			return pe.Message
		default:
			return fmt.Sprintf("%s: %s", pe.Category, pe.Message)
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

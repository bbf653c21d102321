package cli

import (
	"errors"

	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/runner"
)

// Exit codes for quickfix.
const (
	// ExitSuccess indicates every task was applied or left the file unchanged.
	ExitSuccess = 0

	// ExitTasksNotApplied indicates at least one task was rejected or failed.
	ExitTasksNotApplied = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors mapped to exit codes.
var (
	// ErrTasksNotApplied is returned when a task was rejected or failed.
	// The outcome has already been reported.
	ErrTasksNotApplied = errors.New("some tasks were not applied")

	// ErrUsage indicates invalid arguments or flags.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("invalid configuration")
)

// ExitCodeFromResult determines the exit code for a run result.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitTasksNotApplied
	}
	return ExitSuccess
}

// ExitCodeFromError maps a command error to an exit code.
func ExitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrTasksNotApplied):
		return ExitTasksNotApplied
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

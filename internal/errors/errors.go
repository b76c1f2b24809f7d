package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, network, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates a referenced profile, remote, skill or backup is absent.
	ErrNotFound = errors.New("resource not found")

	// ErrMalformedConfig indicates a registry, catalog or bundle could not be parsed.
	ErrMalformedConfig = errors.New("malformed configuration")

	// ErrBackupFailed indicates the pre-mutation safety copy could not be completed.
	// Operations that return it have not written anything to the target.
	ErrBackupFailed = errors.New("backup failed")

	// ErrPartialMerge indicates a copy step failed mid-merge. Earlier steps are
	// not rolled back; the caller should restore from the backup.
	ErrPartialMerge = errors.New("partial merge failure")

	// ErrCatalogUnavailable indicates no profile catalog source could be parsed.
	ErrCatalogUnavailable = errors.New("profile catalog unavailable")

	// ErrDependencyMissing marks an advisory finding: a skill depends on a
	// server that is not selected. It never blocks an operation.
	ErrDependencyMissing = errors.New("skill dependency missing")

	// ErrInvalidConfig indicates the tool's own configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Check ~/.config/ccm/config.yaml or the CCM_* environment variables",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Classify maps a core error onto an ExitError with a suggestion the CLI can
// print. Errors that already carry an exit code are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	switch {
	case errors.Is(err, ErrBackupFailed):
		return NewSystemError(err, "No files were changed. Check permissions on the project directory")
	case errors.Is(err, ErrPartialMerge):
		return NewSystemError(err, "Run: ccm backup restore --target <project>")
	case errors.Is(err, ErrNotFound):
		return NewUserError(err, "Run: ccm profile list")
	case errors.Is(err, ErrMalformedConfig):
		return NewUserError(err, "Fix the file or run: ccm validate")
	default:
		return NewSystemError(err, "")
	}
}

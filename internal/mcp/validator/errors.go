// Package validator checks server registry entries for structural problems.
package validator

import (
	"fmt"

	"github.com/thoreinstein/ccm/internal/errors"
)

// Sentinel errors for validation failures.
var (
	// ErrMissingCommand indicates a server has no command.
	ErrMissingCommand = errors.New("server requires command")

	// ErrEmptyServerName indicates a registry key is the empty string.
	ErrEmptyServerName = errors.New("server name is empty")

	// ErrEmptyEnvKey indicates an environment variable has an empty key.
	ErrEmptyEnvKey = errors.New("environment variable key is empty")

	// ErrInvalidTimeout indicates a non-positive timeout.
	ErrInvalidTimeout = errors.New("timeout must be positive")
)

// Severity indicates whether a validation issue is an error or warning.
type Severity int

const (
	// SeverityError makes the registry unusable.
	SeverityError Severity = iota

	// SeverityWarning is reported but does not block use.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// ValidationError represents a single validation issue with context.
type ValidationError struct {
	// ServerName identifies which server has the issue.
	ServerName string

	// Field identifies which field has the issue.
	Field string

	// Message is a human-readable description of the problem.
	Message string

	Severity Severity

	// Err is the underlying sentinel error, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	prefix := e.Severity.String()
	switch {
	case e.ServerName != "" && e.Field != "":
		return fmt.Sprintf("%s: server %q field %q: %s", prefix, e.ServerName, e.Field, e.Message)
	case e.ServerName != "":
		return fmt.Sprintf("%s: server %q: %s", prefix, e.ServerName, e.Message)
	default:
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Errors returns only the issues with error severity.
func Errors(issues []*ValidationError) []*ValidationError {
	return filter(issues, SeverityError)
}

// Warnings returns only the issues with warning severity.
func Warnings(issues []*ValidationError) []*ValidationError {
	return filter(issues, SeverityWarning)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []*ValidationError) bool {
	return len(Errors(issues)) > 0
}

func filter(issues []*ValidationError, sev Severity) []*ValidationError {
	var out []*ValidationError
	for _, e := range issues {
		if e.Severity == sev {
			out = append(out, e)
		}
	}
	return out
}

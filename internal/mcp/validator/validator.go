package validator

import (
	"slices"

	"github.com/thoreinstein/ccm/internal/mcp"
)

var knownTypes = []string{"", mcp.TypeStdio, mcp.TypeSSE, mcp.TypeHTTP}

// Option configures a Validator.
type Option func(*Validator)

// Validator checks registry entries.
type Validator struct {
	strictTypes bool
}

// New creates a Validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithStrictTypes reports unknown server types as errors instead of warnings.
func WithStrictTypes(strict bool) Option {
	return func(v *Validator) {
		v.strictTypes = strict
	}
}

// Validate returns every issue found in reg, ordered by server name.
// It returns nil for a valid registry. An empty registry is valid.
func (v *Validator) Validate(reg *mcp.Registry) []*ValidationError {
	var issues []*ValidationError
	for _, name := range reg.Names() {
		issues = append(issues, v.ValidateServer(name, reg.Servers[name])...)
	}
	return issues
}

// ValidateServer checks a single named server.
func (v *Validator) ValidateServer(name string, s *mcp.Server) []*ValidationError {
	var issues []*ValidationError

	if name == "" {
		issues = append(issues, &ValidationError{
			Message:  "server name is empty",
			Severity: SeverityError,
			Err:      ErrEmptyServerName,
		})
	}

	if !s.HasCommand() {
		issues = append(issues, &ValidationError{
			ServerName: name,
			Field:      "command",
			Message:    "command is required",
			Severity:   SeverityError,
			Err:        ErrMissingCommand,
		})
		return issues
	}

	for key := range s.Env {
		if key == "" {
			issues = append(issues, &ValidationError{
				ServerName: name,
				Field:      "env",
				Message:    "environment variable key is empty",
				Severity:   SeverityError,
				Err:        ErrEmptyEnvKey,
			})
		}
	}

	if s.Timeout != nil && *s.Timeout <= 0 {
		issues = append(issues, &ValidationError{
			ServerName: name,
			Field:      "timeout",
			Message:    "timeout must be positive",
			Severity:   SeverityError,
			Err:        ErrInvalidTimeout,
		})
	}

	if !slices.Contains(knownTypes, s.Type) {
		sev := SeverityWarning
		if v.strictTypes {
			sev = SeverityError
		}
		issues = append(issues, &ValidationError{
			ServerName: name,
			Field:      "type",
			Message:    "unrecognized type " + s.Type,
			Severity:   sev,
		})
	}

	return issues
}

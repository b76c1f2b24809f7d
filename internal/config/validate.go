package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/ccm/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidTimeout indicates a non-positive probe timeout.
	ErrInvalidTimeout = errors.New("probe_timeout must be positive")

	// ErrInvalidStrategy indicates an unrecognized default_strategy.
	ErrInvalidStrategy = errors.New("default_strategy must be overwrite or merge")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.ProbeTimeout <= 0 {
		errs = append(errs, ErrInvalidTimeout)
	}

	switch strings.ToLower(cfg.DefaultStrategy) {
	case "", "overwrite", "merge":
	default:
		errs = append(errs, errors.Wrapf(ErrInvalidStrategy, "got %q", cfg.DefaultStrategy))
	}

	for _, f := range []struct{ field, path string }{
		{"catalog_path", cfg.CatalogPath},
		{"remotes_file", cfg.RemotesFile},
	} {
		if err := validatePath(f.path); err != nil {
			errs = append(errs, &PathError{Field: f.field, Path: f.path, Err: err})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Package parser reads and writes .mcp.json registry files.
package parser

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"sort"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/mcp"
	"github.com/thoreinstein/ccm/internal/mcp/validator"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

// ParseError wraps a parse failure with the file it came from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return "parsing server registry " + e.Path + ": " + e.Err.Error()
	}
	return "parsing server registry: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes a registry document. Every failure is marked with
// errors.ErrMalformedConfig: invalid JSON, a top-level key other than
// "mcpServers", or a server without a command.
func Parse(data []byte) (*mcp.Registry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Wrap(errors.ErrMalformedConfig, "empty document")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, malformed(err, "decoding JSON")
	}

	var unknown []string
	for k := range top {
		if k != mcp.RegistryKey {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.WithDetailf(
			errors.Wrapf(errors.ErrMalformedConfig, "unknown top-level key %q", unknown[0]),
			"only %q is allowed", mcp.RegistryKey)
	}

	reg := mcp.NewRegistry()
	if raw, ok := top[mcp.RegistryKey]; ok {
		if err := json.Unmarshal(raw, &reg.Servers); err != nil {
			return nil, malformed(err, "decoding "+mcp.RegistryKey)
		}
		if reg.Servers == nil {
			reg.Servers = make(map[string]*mcp.Server)
		}
	}

	for _, issue := range validator.New().Validate(reg) {
		if errors.Is(issue, validator.ErrMissingCommand) {
			return nil, errors.Mark(issue, errors.ErrMalformedConfig)
		}
	}

	return reg, nil
}

func malformed(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), errors.ErrMalformedConfig)
}

// ParseFile reads a registry from path. A missing file yields an empty
// registry, not an error.
func ParseFile(path string) (*mcp.Registry, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mcp.NewRegistry(), nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return reg, nil
}

// Write encodes reg as 2-space indented JSON with a trailing newline.
// Map keys are sorted, so output is deterministic.
func Write(reg *mcp.Registry) ([]byte, error) {
	if reg == nil {
		reg = mcp.NewRegistry()
	}
	if reg.Servers == nil {
		reg = mcp.NewRegistry()
	}
	return fileutil.MarshalJSON(reg)
}

// WriteFile writes reg to path atomically, creating parent directories.
func WriteFile(path string, reg *mcp.Registry) error {
	data, err := Write(reg)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	if err := fileutil.AtomicWriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

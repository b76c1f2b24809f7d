// Package bundle defines the portable single-file snapshot produced by
// export and consumed by import.
//
// A bundle records the full server registry and environment template, plus
// the names of the skills, hooks and output styles the source project had.
// Only the registry and the environment template are restored on import.
package bundle

import (
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/thoreinstein/ccm/internal/envfile"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/mcp"
	"github.com/thoreinstein/ccm/internal/mcp/parser"
)

const (
	// SchemaVersion is written into new bundles.
	SchemaVersion = "1.0.0"

	// DefaultSource is the metadata source label of new bundles.
	DefaultSource = "claude-config-manager"
)

// Metadata describes where and when a bundle was made.
type Metadata struct {
	Version    string    `json:"version" yaml:"version" toml:"version"`
	CreatedAt  Timestamp `json:"created_at" yaml:"created_at" toml:"created_at"`
	Source     string    `json:"source" yaml:"source" toml:"source"`
	Profile    string    `json:"profile,omitempty" yaml:"profile,omitempty" toml:"profile,omitempty"`
	SourcePath string    `json:"source_path,omitempty" yaml:"source_path,omitempty" toml:"source_path,omitempty"`
}

// Bundle is an exported configuration.
type Bundle struct {
	Metadata Metadata `json:"metadata" yaml:"metadata" toml:"metadata"`

	// MCPConfig is the registry document, {"mcpServers": {...}}.
	MCPConfig map[string]any `json:"mcp_config" yaml:"mcp_config" toml:"mcp_config"`

	Skills       []string          `json:"skills" yaml:"skills" toml:"skills"`
	EnvTemplate  map[string]string `json:"env_template" yaml:"env_template" toml:"env_template"`
	Hooks        []string          `json:"hooks" yaml:"hooks" toml:"hooks"`
	OutputStyles []string          `json:"output_styles" yaml:"output_styles" toml:"output_styles"`
}

// NewMetadata returns metadata stamped with now and the default source.
func NewMetadata(now time.Time, profile, sourcePath string) Metadata {
	return Metadata{
		Version:    SchemaVersion,
		CreatedAt:  Timestamp{now},
		Source:     DefaultSource,
		Profile:    profile,
		SourcePath: sourcePath,
	}
}

// SetRegistry stores reg as the bundle's raw registry document.
func (b *Bundle) SetRegistry(reg *mcp.Registry) error {
	data, err := parser.Write(reg)
	if err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "converting registry")
	}
	b.MCPConfig = raw
	return nil
}

// Registry decodes the raw registry document with the same strict rules as
// .mcp.json.
func (b *Bundle) Registry() (*mcp.Registry, error) {
	if b.MCPConfig == nil {
		return mcp.NewRegistry(), nil
	}
	data, err := json.Marshal(b.MCPConfig)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "encoding mcp_config"), errors.ErrMalformedConfig)
	}
	reg, err := parser.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "bundle mcp_config")
	}
	return reg, nil
}

// Env returns the bundle's environment template.
func (b *Bundle) Env() envfile.Template {
	return envfile.Template(b.EnvTemplate)
}

// CheckVersion rejects bundles whose schema major version is newer than
// SchemaVersion or whose version is not a semantic version.
func (b *Bundle) CheckVersion() error {
	v := b.Metadata.Version
	if v == "" {
		return nil
	}
	cv := canonical(v)
	if !semver.IsValid(cv) {
		return errors.Wrapf(errors.ErrMalformedConfig, "bundle version %q is not a semantic version", v)
	}
	if semver.Compare(semver.Major(cv), semver.Major(canonical(SchemaVersion))) > 0 {
		return errors.WithDetailf(
			errors.Wrapf(errors.ErrMalformedConfig, "bundle version %s is newer than supported %s", v, SchemaVersion),
			"upgrade ccm to import this bundle")
	}
	return nil
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// normalize replaces nil collections so every encoding sees the same shape.
func (b *Bundle) normalize() {
	if b.Skills == nil {
		b.Skills = []string{}
	}
	if b.Hooks == nil {
		b.Hooks = []string{}
	}
	if b.OutputStyles == nil {
		b.OutputStyles = []string{}
	}
	if b.EnvTemplate == nil {
		b.EnvTemplate = map[string]string{}
	}
}

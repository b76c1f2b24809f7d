// Package profile loads the catalog of named project profiles and the
// skill-to-server dependency table.
//
// A catalog is read from an override file (JSON, or YAML by extension) or
// from the embedded default. Profile names keep their declaration order.
package profile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/resolver"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

//go:embed profiles.json
var defaultCatalog []byte

// DefaultData returns a copy of the embedded catalog document.
func DefaultData() []byte {
	return bytes.Clone(defaultCatalog)
}

// DefaultSource names the embedded catalog in Catalog.Source.
const DefaultSource = "embedded"

// Profile is a named selection of servers, skills and environment variables.
type Profile struct {
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	MCPServers      []string `json:"mcpServers" yaml:"mcpServers"`
	Skills          []string `json:"skills" yaml:"skills"`
	RequiredEnvVars []string `json:"requiredEnvVars" yaml:"requiredEnvVars"`
}

// Dependencies maps a skill to the servers it needs.
type Dependencies struct {
	Skills map[string][]string `json:"skills" yaml:"skills"`
}

// Catalog is an immutable set of profiles plus the dependency table.
type Catalog struct {
	// Version and Description come from the catalog document.
	Version     string
	Description string

	// Source is the file the catalog was read from, or DefaultSource.
	Source string

	profiles map[string]*Profile
	order    []string
	deps     map[string][]string
}

// document is the on-disk shape shared by the JSON and YAML encodings.
type document struct {
	Version      string              `json:"version" yaml:"version"`
	Description  string              `json:"description" yaml:"description"`
	Profiles     map[string]*Profile `json:"profiles" yaml:"profiles"`
	Dependencies Dependencies        `json:"dependencies" yaml:"dependencies"`
}

// Empty returns a catalog with no profiles and no dependencies.
func Empty() *Catalog {
	return &Catalog{
		profiles: map[string]*Profile{},
		deps:     map[string][]string{},
	}
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	logger   *slog.Logger
	fallback []byte
}

// WithLogger sets the logger used to report an unusable override file.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		l.logger = logger
	}
}

// WithDefault replaces the embedded default catalog.
func WithDefault(data []byte) Option {
	return func(l *loader) {
		l.fallback = data
	}
}

// Load reads the catalog at overridePath when it is set and exists,
// otherwise the embedded default. An override that fails to parse is
// logged and the default is used instead. errors.ErrCatalogUnavailable is
// returned only when no source parses.
func Load(overridePath string, opts ...Option) (*Catalog, error) {
	l := &loader{fallback: defaultCatalog}
	for _, opt := range opts {
		opt(l)
	}
	logger := logging.OrDiscard(l.logger)

	var overrideErr error
	if overridePath != "" && fileutil.Exists(overridePath) {
		c, err := LoadFile(overridePath)
		if err == nil {
			return c, nil
		}
		overrideErr = err
		logger.Warn("profile catalog override unusable, using default", "path", overridePath, "error", err)
	}

	c, err := Parse(l.fallback, FormatJSON)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(errors.Join(overrideErr, err), "loading profile catalog"), errors.ErrCatalogUnavailable)
	}
	c.Source = DefaultSource
	return c, nil
}

// LoadOrEmpty calls Load and maps a failure to an empty catalog, logging a
// warning. It is the only place the soft-fail policy is applied.
func LoadOrEmpty(overridePath string, logger *slog.Logger) *Catalog {
	c, err := Load(overridePath, WithLogger(logger))
	if err != nil {
		logging.OrDiscard(logger).Warn("no profile catalog available, continuing with none", "error", err)
		return Empty()
	}
	return c
}

// Format is a catalog encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml/.yml and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	c.Source = path
	return c, nil
}

// Parse decodes a catalog document. Failures are marked
// errors.ErrMalformedConfig.
func Parse(data []byte, format Format) (*Catalog, error) {
	var (
		doc   document
		order []string
		err   error
	)
	switch format {
	case FormatYAML:
		order, err = decodeYAML(data, &doc)
	default:
		order, err = decodeJSON(data, &doc)
	}
	if err != nil {
		return nil, errors.Mark(err, errors.ErrMalformedConfig)
	}
	if doc.Version == "" {
		return nil, errors.Wrap(errors.ErrMalformedConfig, "catalog has no version")
	}

	c := &Catalog{
		Version:     doc.Version,
		Description: doc.Description,
		profiles:    make(map[string]*Profile, len(doc.Profiles)),
		order:       order,
		deps:        make(map[string][]string, len(doc.Dependencies.Skills)),
	}
	for key, p := range doc.Profiles {
		if key == "" {
			return nil, errors.Wrap(errors.ErrMalformedConfig, "profile with empty name")
		}
		if p == nil {
			p = &Profile{}
		}
		if p.Name == "" {
			p.Name = key
		}
		c.profiles[key] = p
	}
	for skill, servers := range doc.Dependencies.Skills {
		c.deps[skill] = slices.Clone(servers)
	}
	return c, nil
}

func decodeJSON(data []byte, doc *document) ([]string, error) {
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "decoding catalog JSON")
	}
	var raw struct {
		Profiles json.RawMessage `json:"profiles"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding catalog JSON")
	}
	return jsonObjectKeys(raw.Profiles)
}

// jsonObjectKeys returns the keys of a JSON object in document order.
func jsonObjectKeys(data json.RawMessage) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "reading profiles")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("profiles must be an object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading profile name")
		}
		key, _ := tok.(string)
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, errors.Wrapf(err, "reading profile %q", key)
		}
	}
	return keys, nil
}

func decodeYAML(data []byte, doc *document) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "decoding catalog YAML")
	}
	if err := root.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "decoding catalog YAML")
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, errors.New("catalog must be a mapping")
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "profiles" {
			continue
		}
		profiles := top.Content[i+1]
		var keys []string
		for j := 0; j+1 < len(profiles.Content); j += 2 {
			keys = append(keys, profiles.Content[j].Value)
		}
		return keys, nil
	}
	return nil, nil
}

// Get returns the named profile. Matching is case-sensitive.
func (c *Catalog) Get(name string) (*Profile, bool) {
	p, ok := c.profiles[name]
	return p, ok
}

// Names returns profile names in declaration order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// Len returns the number of profiles.
func (c *Catalog) Len() int {
	return len(c.profiles)
}

// Dependencies returns a copy of the skill-to-server table.
func (c *Catalog) Dependencies() map[string][]string {
	out := make(map[string][]string, len(c.deps))
	for k, v := range c.deps {
		out[k] = slices.Clone(v)
	}
	return out
}

// Summary describes a profile for display.
type Summary struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MCPCount    int      `json:"mcp_count"`
	SkillCount  int      `json:"skill_count"`
	EnvVars     []string `json:"env_vars"`
	MCPServers  []string `json:"mcp_servers"`
	Skills      []string `json:"skills"`

	// MissingServers are required by the profile's skills but not selected.
	MissingServers []string `json:"missing_servers,omitempty"`
}

// Summary returns the display summary of the named profile.
func (c *Catalog) Summary(name string) (Summary, bool) {
	p, ok := c.profiles[name]
	if !ok {
		return Summary{}, false
	}
	return Summary{
		Key:         name,
		Name:        p.Name,
		Description: p.Description,
		MCPCount:    len(p.MCPServers),
		SkillCount:  len(p.Skills),
		EnvVars:     slices.Clone(p.RequiredEnvVars),
		MCPServers:  slices.Clone(p.MCPServers),
		Skills:      slices.Clone(p.Skills),

		MissingServers: resolver.New(c.deps).MissingServers(p.MCPServers, p.Skills),
	}, true
}

package mcp

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Known server kinds. The registry accepts any string; these are the values
// the validator does not warn about.
const (
	TypeStdio = "stdio"
	TypeSSE   = "sse"
	TypeHTTP  = "http"
)

// RegistryKey is the single top-level key of the registry file.
const RegistryKey = "mcpServers"

// Server is one launchable tool integration.
type Server struct {
	// Command is the executable to launch. Required.
	Command string `json:"command"`

	// Args are passed to Command in order.
	Args []string `json:"args,omitempty"`

	// Env maps variable names to literal values or ${NAME} placeholders.
	Env map[string]string `json:"env,omitempty"`

	// Type is an optional declared kind such as "stdio".
	Type string `json:"type,omitempty"`

	// Timeout is an optional timeout in seconds.
	Timeout *int `json:"timeout,omitempty"`

	// AutoApprove lists operation names that run without confirmation.
	AutoApprove []string `json:"autoApprove,omitempty"`

	// unknownFields keeps server fields this package does not model.
	unknownFields map[string]json.RawMessage
}

// Clone returns a deep copy of s.
func (s *Server) Clone() *Server {
	if s == nil {
		return nil
	}
	c := &Server{
		Command:       s.Command,
		Args:          slices.Clone(s.Args),
		Env:           maps.Clone(s.Env),
		Type:          s.Type,
		AutoApprove:   slices.Clone(s.AutoApprove),
		unknownFields: maps.Clone(s.unknownFields),
	}
	if s.Timeout != nil {
		t := *s.Timeout
		c.Timeout = &t
	}
	return c
}

// MarshalJSON writes known fields, omitting empty optional ones, followed by
// any preserved unknown fields.
func (s *Server) MarshalJSON() ([]byte, error) {
	result := make(map[string]any, len(s.unknownFields)+6)
	for k, v := range s.unknownFields {
		result[k] = v
	}

	result["command"] = s.Command
	if len(s.Args) > 0 {
		result["args"] = s.Args
	}
	if len(s.Env) > 0 {
		result["env"] = s.Env
	}
	if s.Type != "" {
		result["type"] = s.Type
	}
	if s.Timeout != nil {
		result["timeout"] = *s.Timeout
	}
	if len(s.AutoApprove) > 0 {
		result["autoApprove"] = s.AutoApprove
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes known fields and keeps the rest.
func (s *Server) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := []struct {
		key string
		dst any
	}{
		{"command", &s.Command},
		{"args", &s.Args},
		{"env", &s.Env},
		{"type", &s.Type},
		{"timeout", &s.Timeout},
		{"autoApprove", &s.AutoApprove},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return err
		}
		delete(raw, f.key)
	}

	if len(raw) > 0 {
		s.unknownFields = raw
	}
	return nil
}

// HasCommand reports whether the raw JSON carried a non-empty command.
func (s *Server) HasCommand() bool {
	return s != nil && s.Command != ""
}

// Registry maps server names to definitions.
type Registry struct {
	Servers map[string]*Server `json:"mcpServers"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Servers: make(map[string]*Server)}
}

// Names returns the server names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.Servers))
}

// Len returns the number of servers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Servers)
}

// Clone returns a deep copy of r.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	if r == nil {
		return c
	}
	for name, s := range r.Servers {
		c.Servers[name] = s.Clone()
	}
	return c
}

// Filter returns a copy holding only the servers whose names are in names.
// Names absent from r are ignored. A nil names slice keeps every server.
func (r *Registry) Filter(names []string) *Registry {
	if names == nil {
		return r.Clone()
	}
	c := NewRegistry()
	if r == nil {
		return c
	}
	for _, name := range names {
		if s, ok := r.Servers[name]; ok {
			c.Servers[name] = s.Clone()
		}
	}
	return c
}

// Union returns base's servers overlaid with over's. On a name collision the
// server from over wins.
func Union(base, over *Registry) *Registry {
	c := base.Clone()
	if over == nil {
		return c
	}
	for name, s := range over.Servers {
		c.Servers[name] = s.Clone()
	}
	return c
}

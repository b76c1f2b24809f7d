package validator

import (
	"testing"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/mcp"
)

func TestValidator_Validate(t *testing.T) {
	zero := 0
	tests := []struct {
		name      string
		servers   map[string]*mcp.Server
		wantErrs  []error
		wantWarns int
	}{
		{
			name:    "empty registry is valid",
			servers: nil,
		},
		{
			name: "valid server",
			servers: map[string]*mcp.Server{
				"git": {Command: "uvx", Args: []string{"mcp-server-git"}, Type: mcp.TypeStdio},
			},
		},
		{
			name:     "missing command",
			servers:  map[string]*mcp.Server{"git": {Args: []string{"x"}}},
			wantErrs: []error{ErrMissingCommand},
		},
		{
			name:     "nil server",
			servers:  map[string]*mcp.Server{"git": nil},
			wantErrs: []error{ErrMissingCommand},
		},
		{
			name:     "empty env key",
			servers:  map[string]*mcp.Server{"git": {Command: "x", Env: map[string]string{"": "v"}}},
			wantErrs: []error{ErrEmptyEnvKey},
		},
		{
			name:     "zero timeout",
			servers:  map[string]*mcp.Server{"git": {Command: "x", Timeout: &zero}},
			wantErrs: []error{ErrInvalidTimeout},
		},
		{
			name:      "unknown type warns",
			servers:   map[string]*mcp.Server{"git": {Command: "x", Type: "websocket"}},
			wantWarns: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := New().Validate(&mcp.Registry{Servers: tt.servers})

			errs := Errors(issues)
			if len(errs) != len(tt.wantErrs) {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(tt.wantErrs))
			}
			for i, want := range tt.wantErrs {
				if !errors.Is(errs[i], want) {
					t.Errorf("issue %d = %v, want %v", i, errs[i], want)
				}
			}
			if got := len(Warnings(issues)); got != tt.wantWarns {
				t.Errorf("got %d warnings, want %d", got, tt.wantWarns)
			}
		})
	}
}

func TestWithStrictTypes(t *testing.T) {
	reg := &mcp.Registry{Servers: map[string]*mcp.Server{"a": {Command: "x", Type: "grpc"}}}
	if HasErrors(New().Validate(reg)) {
		t.Error("unknown type is an error without strict types")
	}
	if !HasErrors(New(WithStrictTypes(true)).Validate(reg)) {
		t.Error("unknown type is not an error with strict types")
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		want string
	}{
		{&ValidationError{ServerName: "a", Field: "command", Message: "command is required"}, `error: server "a" field "command": command is required`},
		{&ValidationError{ServerName: "a", Message: "bad", Severity: SeverityWarning}, `warning: server "a": bad`},
		{&ValidationError{Message: "server name is empty"}, "error: server name is empty"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

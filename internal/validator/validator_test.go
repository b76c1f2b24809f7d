package validator

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/mcp"
	"github.com/thoreinstein/ccm/internal/store"
)

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, perm); err != nil {
		t.Fatal(err)
	}
}

func runCategory(t *testing.T, root, category string, opts ...Option) *Result {
	t.Helper()
	opts = append(opts, WithLogger(logging.ForTest(t)))
	res := New(store.New(root), opts...).Validate().Result(category)
	if res == nil {
		t.Fatalf("no result for category %q", category)
	}
	return res
}

// checkResult compares the outcome of one check.
func checkResult(t *testing.T, res *Result, wantPass bool, wantMsg string, wantDetail []string) {
	t.Helper()
	if res.Passed != wantPass {
		t.Errorf("Passed = %v, want %v (message %q)", res.Passed, wantPass, res.Message)
	}
	if res.Message != wantMsg {
		t.Errorf("Message = %q, want %q", res.Message, wantMsg)
	}
	if !slices.Equal(res.Details, wantDetail) {
		t.Errorf("Details = %q, want %q", res.Details, wantDetail)
	}
}

func TestValidate_Order(t *testing.T) {
	report := New(store.New(t.TempDir())).Validate()
	var got []string
	for _, r := range report.Results {
		got = append(got, r.Category)
	}
	want := []string{CategoryMCP, CategoryEnv, CategorySkills, CategoryHooks, CategoryDependencies}
	if !slices.Equal(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
}

func TestMCPConfigCheck(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		strict     bool
		wantPass   bool
		wantMsg    string
		wantDetail []string
	}{
		{name: "absent", wantMsg: ".mcp.json not found"},
		{name: "unparsable", content: "{not json", wantMsg: "Invalid .mcp.json: "},
		{name: "missing command", content: `{"mcpServers": {"a": {}}}`, wantMsg: "Invalid .mcp.json: "},
		{
			name:       "valid",
			content:    `{"mcpServers": {"b": {"command": "x"}, "a": {"command": "y"}}}`,
			wantPass:   true,
			wantMsg:    "Valid configuration with 2 MCP servers",
			wantDetail: []string{"a", "b"},
		},
		{
			name:     "unknown type is a warning",
			content:  `{"mcpServers": {"a": {"command": "x", "type": "websocket"}}}`,
			wantPass: true,
			wantMsg:  "Valid configuration with 1 MCP servers",
			wantDetail: []string{
				"a",
				`warning: server "a" field "type": unrecognized type websocket`,
			},
		},
		{
			name:       "unknown type fails when strict",
			content:    `{"mcpServers": {"a": {"command": "x", "type": "websocket"}}}`,
			strict:     true,
			wantMsg:    "1 invalid MCP server entries",
			wantDetail: []string{`error: server "a" field "type": unrecognized type websocket`},
		},
		{
			name:       "non-positive timeout",
			content:    `{"mcpServers": {"a": {"command": "x", "timeout": 0}, "b": {"command": "y"}}}`,
			wantMsg:    "1 invalid MCP server entries",
			wantDetail: []string{`error: server "a" field "timeout": timeout must be positive`},
		},
		{
			name:       "empty env key",
			content:    `{"mcpServers": {"a": {"command": "x", "env": {"": "v"}}}}`,
			wantMsg:    "1 invalid MCP server entries",
			wantDetail: []string{`error: server "a" field "env": environment variable key is empty`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.content != "" {
				writeFile(t, filepath.Join(root, ".mcp.json"), tt.content, 0o644)
			}
			res := runCategory(t, root, CategoryMCP, WithStrictTypes(tt.strict))
			if res.Passed != tt.wantPass {
				t.Errorf("Passed = %v, want %v (message %q)", res.Passed, tt.wantPass, res.Message)
			}
			if !strings.HasPrefix(res.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want prefix %q", res.Message, tt.wantMsg)
			}
			if !slices.Equal(res.Details, tt.wantDetail) {
				t.Errorf("Details = %q, want %q", res.Details, tt.wantDetail)
			}
		})
	}
}

func TestEnvCheck(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".mcp.json"), `{"mcpServers": {
		"github": {"command": "npx", "env": {"GITHUB_TOKEN": "${GITHUB_TOKEN}", "HOST": "${GH_HOST:-github.com}"}},
		"db": {"command": "pg", "args": ["--url", "${DATABASE_URL}"]}
	}}`, 0o644)

	t.Run("missing variables are informational", func(t *testing.T) {
		res := runCategory(t, root, CategoryEnv, WithEnv(Env{"GITHUB_TOKEN": "ghp_x"}))
		checkResult(t, res, true, "1 optional environment variables not set (configure in .env)", []string{"DATABASE_URL"})
	})

	t.Run("empty value counts as missing", func(t *testing.T) {
		res := runCategory(t, root, CategoryEnv, WithEnv(Env{"GITHUB_TOKEN": "", "DATABASE_URL": "x"}))
		checkResult(t, res, true, "1 optional environment variables not set (configure in .env)", []string{"GITHUB_TOKEN"})
	})

	t.Run("all set", func(t *testing.T) {
		res := runCategory(t, root, CategoryEnv, WithEnv(Env{"GITHUB_TOKEN": "x", "DATABASE_URL": "y"}))
		checkResult(t, res, true, "All 2 required environment variables are set", []string{"DATABASE_URL", "GITHUB_TOKEN"})
	})

	t.Run("unreadable registry still passes", func(t *testing.T) {
		bad := t.TempDir()
		writeFile(t, filepath.Join(bad, ".mcp.json"), "[]", 0o644)
		if res := runCategory(t, bad, CategoryEnv); !res.Passed {
			t.Errorf("Passed = false, want true (message %q)", res.Message)
		}
	})
}

func TestRequiredVars(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want []string
	}{
		{
			name: "braced references",
			args: []string{"--token=${TOKEN}", "${TOKEN}", "plain"},
			env:  map[string]string{"A": "${A_VAR}", "B": "$NOT_BRACED"},
			want: []string{"A_VAR", "TOKEN"},
		},
		{
			name: "default makes a reference optional",
			args: []string{"${OPT:-1}", "${EMPTY_DEFAULT:-}"},
			want: []string{},
		},
		{
			name: "names are not limited to identifiers",
			args: []string{"${my-var}", "${dotted.name}"},
			want: []string{"dotted.name", "my-var"},
		},
		{
			name: "other modifiers are still required",
			args: []string{"${ALT:+x}", "${ERR:?unset}"},
			want: []string{"ALT", "ERR"},
		},
		{
			name: "no references",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := mcp.NewRegistry()
			reg.Servers["a"] = &mcp.Server{Command: "x", Args: tt.args, Env: tt.env}
			if got := RequiredVars(reg); !slices.Equal(got, tt.want) {
				t.Errorf("RequiredVars() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := RequiredVars(mcp.NewRegistry()); len(got) != 0 {
		t.Errorf("RequiredVars(empty) = %q, want none", got)
	}
}

func TestSkillsCheck(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, root string)
		wantPass   bool
		wantMsg    string
		wantDetail []string
	}{
		{
			name:     "absent directory",
			setup:    func(*testing.T, string) {},
			wantPass: false,
			wantMsg:  "Skills directory not found",
		},
		{
			name: "empty directory",
			setup: func(t *testing.T, root string) {
				if err := os.MkdirAll(filepath.Join(root, ".claude/skills"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantPass: true,
			wantMsg:  "No skills installed",
		},
		{
			name: "direct and nested content",
			setup: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, ".claude/skills/direct/SKILL.md"), "x", 0o644)
				writeFile(t, filepath.Join(root, ".claude/skills/nested/v1/config.yaml"), "x", 0o644)
				writeFile(t, filepath.Join(root, ".claude/skills/.hidden/junk.bin"), "x", 0o644)
			},
			wantPass:   true,
			wantMsg:    "2 skills configured correctly",
			wantDetail: []string{"direct", "nested"},
		},
		{
			name: "missing content",
			setup: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, ".claude/skills/good/notes.txt"), "x", 0o644)
				writeFile(t, filepath.Join(root, ".claude/skills/binary/tool.bin"), "x", 0o644)
				writeFile(t, filepath.Join(root, ".claude/skills/deep/a/b/SKILL.md"), "x", 0o644)
				if err := os.MkdirAll(filepath.Join(root, ".claude/skills/empty"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantPass:   false,
			wantMsg:    "3 skills missing content",
			wantDetail: []string{"binary", "deep", "empty"},
		},
		{
			name: "dotfile named like an extension is not content",
			setup: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, ".claude/skills/dotonly/.md"), "x", 0o644)
				writeFile(t, filepath.Join(root, ".claude/skills/real/guide.md"), "x", 0o644)
			},
			wantPass:   false,
			wantMsg:    "1 skills missing content",
			wantDetail: []string{"dotonly"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setup(t, root)
			checkResult(t, runCategory(t, root, CategorySkills), tt.wantPass, tt.wantMsg, tt.wantDetail)
		})
	}
}

func TestHooksCheck(t *testing.T) {
	tests := []struct {
		name       string
		hooks      map[string]os.FileMode
		noDir      bool
		wantPass   bool
		wantMsg    string
		wantDetail []string
	}{
		{name: "absent directory", noDir: true, wantPass: true, wantMsg: "No hooks directory (optional)"},
		{name: "empty directory", hooks: map[string]os.FileMode{}, wantPass: true, wantMsg: "No hooks configured"},
		{
			name:       "executable scripts",
			hooks:      map[string]os.FileMode{"pre": 0o700, "post.sh": 0o755, "lint.bash": 0o744},
			wantPass:   true,
			wantMsg:    "3 hooks configured correctly",
			wantDetail: []string{"lint.bash", "post.sh", "pre"},
		},
		{
			name:       "only owner bit counts",
			hooks:      map[string]os.FileMode{"group.sh": 0o654, "none": 0o644, "ok.sh": 0o744},
			wantPass:   false,
			wantMsg:    "2 hooks are not executable",
			wantDetail: []string{"group.sh", "none"},
		},
		{
			name:       "other extensions are not inspected",
			hooks:      map[string]os.FileMode{"hook.py": 0o644, "README.md": 0o644},
			wantPass:   true,
			wantMsg:    "2 hooks configured correctly",
			wantDetail: []string{"README.md", "hook.py"},
		},
		{
			name:       "leading dot is not an extension",
			hooks:      map[string]os.FileMode{".pre-commit": 0o644},
			wantPass:   false,
			wantMsg:    "1 hooks are not executable",
			wantDetail: []string{".pre-commit"},
		},
		{
			name:       "dotfile with a script extension",
			hooks:      map[string]os.FileMode{".hooks.sh": 0o644, ".ok": 0o755},
			wantPass:   false,
			wantMsg:    "1 hooks are not executable",
			wantDetail: []string{".hooks.sh"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if !tt.noDir {
				if err := os.MkdirAll(filepath.Join(root, ".claude/hooks"), 0o755); err != nil {
					t.Fatal(err)
				}
			}
			for name, mode := range tt.hooks {
				writeFile(t, filepath.Join(root, ".claude/hooks", name), "#!/bin/sh\n", mode)
			}
			checkResult(t, runCategory(t, root, CategoryHooks), tt.wantPass, tt.wantMsg, tt.wantDetail)
		})
	}
}

func TestExt(t *testing.T) {
	tests := map[string]string{
		"pre-commit":  "",
		".pre-commit": "",
		".md":         "",
		"hook.sh":     ".sh",
		".hooks.sh":   ".sh",
		"a.tar.gz":    ".gz",
	}
	for name, want := range tests {
		if got := ext(name); got != want {
			t.Errorf("ext(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDependencyCheck(t *testing.T) {
	deps := map[string][]string{
		"code-review":   {"git", "github"},
		"documentation": {"filesystem"},
	}

	t.Run("gap reported as skill -> server", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".mcp.json"), `{"mcpServers": {"git": {"command": "git"}}}`, 0o644)
		writeFile(t, filepath.Join(root, ".claude/skills/code-review/SKILL.md"), "x", 0o644)

		res := runCategory(t, root, CategoryDependencies, WithDependencies(deps))
		checkResult(t, res, false, "1 missing MCP server dependencies", []string{"code-review -> github"})
	})

	t.Run("satisfied", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".mcp.json"), `{"mcpServers": {"filesystem": {"command": "fs"}}}`, 0o644)
		writeFile(t, filepath.Join(root, ".claude/skills/documentation/SKILL.md"), "x", 0o644)
		writeFile(t, filepath.Join(root, ".claude/skills/unlisted/SKILL.md"), "x", 0o644)

		res := runCategory(t, root, CategoryDependencies, WithDependencies(deps))
		if !res.Passed || res.Message != "All skill dependencies satisfied" {
			t.Errorf("got (%v, %q), want passing \"All skill dependencies satisfied\"", res.Passed, res.Message)
		}
	})

	t.Run("absent registry means no servers", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".claude/skills/documentation/SKILL.md"), "x", 0o644)

		res := runCategory(t, root, CategoryDependencies, WithDependencies(deps))
		if res.Passed {
			t.Error("Passed = true, want false")
		}
		if want := []string{"documentation -> filesystem"}; !slices.Equal(res.Details, want) {
			t.Errorf("Details = %q, want %q", res.Details, want)
		}
	})

	t.Run("unreadable registry fails", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".mcp.json"), "nope", 0o644)
		if runCategory(t, root, CategoryDependencies, WithDependencies(deps)).Passed {
			t.Error("Passed = true, want false")
		}
	})
}

func TestValidate_HealthyProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".mcp.json"), `{"mcpServers": {"git": {"command": "git"}}}`, 0o644)
	writeFile(t, filepath.Join(root, ".claude/skills/git-workflow/SKILL.md"), "x", 0o644)
	writeFile(t, filepath.Join(root, ".claude/hooks/pre-commit"), "#!/bin/sh", 0o755)

	report := New(store.New(root), WithDependencies(map[string][]string{"git-workflow": {"git"}})).Validate()
	if !report.Passed() {
		t.Errorf("report failed: %s", report.Summary())
	}
	if got := report.SuccessCount(); got != 5 {
		t.Errorf("SuccessCount() = %d, want 5", got)
	}
	if report.ProjectPath != root {
		t.Errorf("ProjectPath = %q, want %q", report.ProjectPath, root)
	}
}

func TestEnvFromList(t *testing.T) {
	env := EnvFromList([]string{"A=1", "B=x=y", "EMPTY=", "NOEQUALS", "=bad", "A=2"})
	want := Env{"A": "2", "B": "x=y", "EMPTY": ""}
	if len(env) != len(want) {
		t.Fatalf("EnvFromList() = %v, want %v", env, want)
	}
	for k, v := range want {
		if got, ok := env[k]; !ok || got != v {
			t.Errorf("env[%q] = %q (present %v), want %q", k, got, ok, v)
		}
	}
}

func TestProbeServer(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".mcp.json"), `{"mcpServers": {"ok": {"command": "true"}, "bad": {"command": "false"}}}`, 0o644)
	ctx := context.Background()

	prober := NewMockProber(t)
	prober.On("Probe", ctx, mock.MatchedBy(func(s *mcp.Server) bool { return s.Command == "true" })).Return(nil).Once()
	prober.On("Probe", ctx, mock.MatchedBy(func(s *mcp.Server) bool { return s.Command == "false" })).Return(errors.New("exit status 1")).Once()

	v := New(store.New(root), WithProber(prober), WithLogger(logging.ForTest(t)))
	if !v.ProbeServer(ctx, "ok") {
		t.Error("ProbeServer(ok) = false, want true")
	}
	if v.ProbeServer(ctx, "bad") {
		t.Error("ProbeServer(bad) = true, want false")
	}
	if v.ProbeServer(ctx, "unknown") {
		t.Error("ProbeServer(unknown) = true, want false")
	}
}

func TestProbeServer_NoProber(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".mcp.json"), `{"mcpServers": {"ok": {"command": "true"}}}`, 0o644)
	if New(store.New(root)).ProbeServer(context.Background(), "ok") {
		t.Error("ProbeServer() = true, want false")
	}
}

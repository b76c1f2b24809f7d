package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/profile"
)

const twoProfiles = `{
  "version": "1.0.0",
  "profiles": {
    "full": {"name": "Full Stack", "description": "Everything", "mcpServers": ["git", "github"], "skills": ["code-review"], "requiredEnvVars": ["GITHUB_TOKEN"]},
    "minimal": {"description": "Core only", "mcpServers": ["git"]}
  }
}`

func catalog(t *testing.T, doc string) *profile.Catalog {
	t.Helper()
	c, err := profile.Parse([]byte(doc), profile.FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return c
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"full yes", "YES\n", true},
		{"no", "n\n", false},
		{"default", "\n", false},
		{"no newline", "y", true},
		{"other", "maybe\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			got, err := NewPrompterWithIO(strings.NewReader(tt.input), &buf).Confirm("Continue?")
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if want := "Continue? [y/N]: "; buf.String() != want {
				t.Errorf("prompt = %q, want %q", buf.String(), want)
			}
		})
	}
}

func TestConfirm_Cancelled(t *testing.T) {
	t.Parallel()

	_, err := NewPrompterWithIO(&eofReader{}, io.Discard).Confirm("Continue?")
	if !errors.Is(err, ErrSelectionCancelled) {
		t.Errorf("Confirm() error = %v, want ErrSelectionCancelled", err)
	}
}

func TestSelectProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"explicit first", "1\n", "full"},
		{"explicit second", "2\n", "minimal"},
		{"default on empty", "\n", "full"},
		{"whitespace trimmed", "  2  \n", "minimal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			got, err := NewPrompterWithIO(strings.NewReader(tt.input), &buf).SelectProfile(catalog(t, twoProfiles))
			if err != nil {
				t.Fatalf("SelectProfile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SelectProfile() = %q, want %q", got, tt.want)
			}

			out := buf.String()
			for _, want := range []string{"[1] full - Everything", "[2] minimal - Core only", "Select [1]:"} {
				if !strings.Contains(out, want) {
					t.Errorf("menu missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestSelectProfile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"too low", "0\n", "out of range"},
		{"too high", "3\n", "out of range"},
		{"not a number", "abc\n", "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewPrompterWithIO(strings.NewReader(tt.input), io.Discard).SelectProfile(catalog(t, twoProfiles))
			if !errors.Is(err, ErrInvalidSelection) {
				t.Fatalf("SelectProfile(%q) error = %v, want ErrInvalidSelection", tt.input, err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSelectProfile_Edges(t *testing.T) {
	t.Parallel()

	_, err := NewPrompterWithIO(strings.NewReader(""), io.Discard).SelectProfile(profile.Empty())
	if !errors.Is(err, ErrNoProfiles) {
		t.Errorf("empty catalog error = %v, want ErrNoProfiles", err)
	}

	var buf bytes.Buffer
	single := catalog(t, `{"version":"1","profiles":{"only":{}}}`)
	got, err := NewPrompterWithIO(strings.NewReader(""), &buf).SelectProfile(single)
	if err != nil {
		t.Fatalf("SelectProfile() error = %v", err)
	}
	if got != "only" {
		t.Errorf("SelectProfile() = %q, want %q", got, "only")
	}
	if buf.Len() != 0 {
		t.Errorf("single profile prompted anyway: %q", buf.String())
	}

	_, err = NewPrompterWithIO(&eofReader{}, io.Discard).SelectProfile(catalog(t, twoProfiles))
	if !errors.Is(err, ErrSelectionCancelled) {
		t.Errorf("EOF error = %v, want ErrSelectionCancelled", err)
	}
}

func TestFuzzySelectProfile_Empty(t *testing.T) {
	t.Parallel()

	if _, err := FuzzySelectProfile(profile.Empty()); !errors.Is(err, ErrNoProfiles) {
		t.Errorf("FuzzySelectProfile() error = %v, want ErrNoProfiles", err)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	c := catalog(t, twoProfiles)
	got := Preview(c, "full")
	for _, want := range []string{
		"Full Stack\nEverything\n",
		"MCP servers (2):\n  git\n  github\n",
		"Skills (1):\n  code-review\n",
		"Environment:\n  GITHUB_TOKEN\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Preview(full) missing %q:\n%s", want, got)
		}
	}

	if got := Preview(c, "minimal"); strings.Contains(got, "Environment:") {
		t.Errorf("Preview(minimal) lists an environment section:\n%s", got)
	}
	if got := Preview(c, "missing"); got != "" {
		t.Errorf("Preview(missing) = %q, want empty", got)
	}
}

// eofReader simulates immediate EOF (like Ctrl+D).
type eofReader struct{}

func (r *eofReader) Read(_ []byte) (int, error) {
	return 0, io.EOF
}

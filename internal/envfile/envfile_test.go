package envfile

import (
	"maps"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Template
	}{
		{
			name:  "empty",
			input: "",
			want:  Template{},
		},
		{
			name:  "comments and blanks ignored",
			input: "# header\n\nA=1\n  # indented comment\nB=2\n",
			want:  Template{"A": "1", "B": "2"},
		},
		{
			name:  "whitespace trimmed",
			input: "  KEY =  value  \n",
			want:  Template{"KEY": "value"},
		},
		{
			name:  "only first equals splits",
			input: "URL=postgres://u:p@h/db?sslmode=disable\n",
			want:  Template{"URL": "postgres://u:p@h/db?sslmode=disable"},
		},
		{
			name:  "placeholders kept verbatim",
			input: "TOKEN=${GITHUB_TOKEN}\nMODE=${MODE:-dev}\n",
			want:  Template{"TOKEN": "${GITHUB_TOKEN}", "MODE": "${MODE:-dev}"},
		},
		{
			name:  "lines without equals skipped",
			input: "export\nA=1\n",
			want:  Template{"A": "1"},
		},
		{
			name:  "empty value",
			input: "A=\n",
			want:  Template{"A": ""},
		},
		{
			name:  "later duplicate wins",
			input: "A=1\nA=2\n",
			want:  Template{"A": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !maps.Equal(got, tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBytes(t *testing.T) {
	got := Template{"B": "2", "A": "${A}"}.Bytes()
	want := "# Claude Code Configuration Environment Variables\n\nA=${A}\nB=2\n"
	if string(got) != want {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.example")
	orig := Template{"GITHUB_TOKEN": "", "REGION": "us-east-1"}

	if err := orig.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, exists, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if !exists {
		t.Error("exists = false, want true")
	}
	if !maps.Equal(got, orig) {
		t.Errorf("ParseFile() = %v, want %v", got, orig)
	}
}

func TestParseFile_Missing(t *testing.T) {
	got, exists, err := ParseFile(filepath.Join(t.TempDir(), ".env.example"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if exists {
		t.Error("exists = true, want false")
	}
	if len(got) != 0 {
		t.Errorf("ParseFile() = %v, want empty", got)
	}
}

func TestParseFile_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".env.example"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, _, err := ParseFile(filepath.Join(dir, ".env.example")); err == nil {
		t.Error("ParseFile(directory) error = nil, want error")
	}
}

func TestMerge(t *testing.T) {
	base := Template{"A": "old", "B": "keep"}
	newer := Template{"A": "new", "C": "add"}

	got := Merge(base, newer)
	if want := (Template{"A": "new", "B": "keep", "C": "add"}); !maps.Equal(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
	if base["A"] != "old" {
		t.Errorf("base was modified: %v", base)
	}

	if empty := Merge(nil, nil); empty == nil || len(empty) != 0 {
		t.Errorf("Merge(nil, nil) = %#v, want empty non-nil template", empty)
	}
}

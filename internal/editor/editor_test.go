package editor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestCommand(t *testing.T) {
	_, nanoErr := exec.LookPath("nano")
	fallback := "vi"
	if nanoErr == nil {
		fallback = "nano"
	}

	tests := []struct {
		name     string
		editor   string
		visual   string
		wantName string
		wantArgs []string
	}{
		{"editor wins", "nvim", "code", "nvim", nil},
		{"visual when editor unset", "", "code", "code", nil},
		{"arguments split", "code --wait", "", "code", []string{"--wait"}},
		{"whitespace treated as unset", "  ", "emacs", "emacs", nil},
		{"fallback", "", "", fallback, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			name, args := Command()
			if name != tt.wantName {
				t.Errorf("Command() name = %q, want %q", name, tt.wantName)
			}
			if !slices.Equal(args, tt.wantArgs) {
				t.Errorf("Command() args = %q, want %q", args, tt.wantArgs)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script editor")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"edited $@\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EDITOR", script)

	var out bytes.Buffer
	e := &Editor{Stdout: &out, Stderr: &out}
	target := filepath.Join(dir, "profiles.json")
	if err := e.Open(context.Background(), target); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if want := "edited " + target + "\n"; out.String() != want {
		t.Errorf("editor output = %q, want %q", out.String(), want)
	}
}

func TestOpen_MissingEditor(t *testing.T) {
	t.Setenv("EDITOR", "ccm-no-such-editor-12345")

	err := (&Editor{}).Open(context.Background(), "profiles.json")
	if err == nil {
		t.Fatal("Open() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "running editor ccm-no-such-editor-12345") {
		t.Errorf("error = %q, want it to name the editor", err)
	}
}

package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{"text", []byte("hello world\n"), 0o644},
		{"empty", []byte{}, 0o644},
		{"private", []byte("SECRET=x\n"), 0o600},
		{"executable", []byte("#!/bin/sh\necho hi\n"), 0o755},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")
			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm() != tt.perm {
				t.Errorf("mode = %v, want %v", info.Mode().Perm(), tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", ".mcp.json")
	if err := AtomicWriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestAtomicWriteFile_OverwriteLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteFile(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}
	if got := readString(t, path); got != "new" {
		t.Errorf("content = %q, want new", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestAtomicWriteFile_FailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes the final rename fail.
	target := filepath.Join(dir, "target")
	if err := os.MkdirAll(filepath.Join(target, "child"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteFile(target, []byte("x"), 0o644); err == nil {
		t.Fatal("AtomicWriteFile() error = nil, want error")
	}
	if !IsDir(filepath.Join(target, "child")) {
		t.Error("existing directory was replaced")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(map[string]any{"command": "a && b <c>"})
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if want := "{\n  \"command\": \"a && b <c>\"\n}\n"; string(data) != want {
		t.Errorf("MarshalJSON() = %q, want %q", data, want)
	}
}

func TestAtomicWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	if err := AtomicWriteJSON(path, map[string]int{"n": 1}); err != nil {
		t.Fatalf("AtomicWriteJSON() error = %v", err)
	}
	if got := readString(t, path); got != "{\n  \"n\": 1\n}\n" {
		t.Errorf("content = %q", got)
	}
}

func TestAtomicWriteYAML(t *testing.T) {
	type doc struct {
		Name  string   `yaml:"name"`
		Items []string `yaml:"items"`
	}
	path := filepath.Join(t.TempDir(), "x.yaml")
	if err := AtomicWriteYAML(path, doc{Name: "bundle", Items: []string{"a"}}); err != nil {
		t.Fatalf("AtomicWriteYAML() error = %v", err)
	}
	if got := readString(t, path); got != "name: bundle\nitems:\n  - a\n" {
		t.Errorf("content = %q", got)
	}
}

func TestMarshalYAML_RecoversPanic(t *testing.T) {
	_, err := MarshalYAML(map[string]any{"fn": func() {}})
	if err == nil {
		t.Fatal("MarshalYAML(func) error = nil, want error")
	}
	if !strings.Contains(err.Error(), "marshaling YAML") {
		t.Errorf("error = %q, want marshaling YAML", err)
	}
}

func TestAtomicWriteTOML(t *testing.T) {
	type meta struct {
		Version string `toml:"version"`
	}
	type doc struct {
		Metadata meta `toml:"metadata"`
	}
	path := filepath.Join(t.TempDir(), "x.toml")
	if err := AtomicWriteTOML(path, doc{Metadata: meta{Version: "1.0.0"}}); err != nil {
		t.Fatalf("AtomicWriteTOML() error = %v", err)
	}

	got := readString(t, path)
	for _, want := range []string{"[metadata]", "version = ", "1.0.0"} {
		if !strings.Contains(got, want) {
			t.Errorf("TOML missing %q:\n%s", want, got)
		}
	}
}

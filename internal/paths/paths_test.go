package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/ccm/internal/errors"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in, want string
	}{
		{"~", home},
		{"~/ccm/profiles.yaml", filepath.Join(home, "ccm", "profiles.yaml")},
		{"/etc/ccm.yaml", "/etc/ccm.yaml"},
		{"~user/x", "~user/x"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := Expand(tt.in)
		if err != nil {
			t.Fatalf("Expand(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveHome(t *testing.T) {
	got, err := ResolveHome()
	want, _ := os.UserHomeDir()

	if err != nil {
		if !errors.Is(err, ErrHomeDirNotFound) {
			t.Errorf("unexpected error type: %v", err)
		}
	} else if got != want {
		t.Errorf("ResolveHome() = %q, want %q", got, want)
	}
}

func TestBaseDirsAreAbsolute(t *testing.T) {
	for name, fn := range map[string]func() string{
		"ConfigHome": ConfigHome,
		"CacheHome":  CacheHome,
		"ConfigDir":  ConfigDir,
		"CacheDir":   CacheDir,
	} {
		got := fn()
		if got == "" {
			t.Errorf("%s() returned empty string", name)
			continue
		}
		if !filepath.IsAbs(got) {
			t.Errorf("%s() = %q, want absolute path", name, got)
		}
	}
}

func TestFilesLiveInConfigDir(t *testing.T) {
	tests := []struct {
		name string
		got  string
		file string
	}{
		{"ConfigFile", ConfigFile(), "config.yaml"},
		{"RemotesFile", RemotesFile(), "remotes.json"},
		{"CatalogFile", CatalogFile(), "profiles.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if want := filepath.Join(ConfigDir(), tt.file); tt.got != want {
				t.Errorf("%s() = %q, want %q", tt.name, tt.got, want)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	if got, want := filepath.Base(ConfigDir()), AppName; got != want {
		t.Errorf("filepath.Base(ConfigDir()) = %q, want %q", got, want)
	}
	if got, want := filepath.Dir(CacheDir()), CacheHome(); got != want {
		t.Errorf("filepath.Dir(CacheDir()) = %q, want %q", got, want)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Error("EnsureDir() did not create a directory")
	}
	if err := EnsureDir(dir, 0o755); err != nil {
		t.Errorf("EnsureDir() second call error = %v", err)
	}
}

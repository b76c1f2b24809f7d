package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/ccm/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInit(t *testing.T) {
	viper.Reset()
	Init()

	if got := viper.GetInt(KeyVersion); got != 1 {
		t.Errorf("version = %d, want 1", got)
	}
	if got := viper.GetDuration(KeyProbeTimeout); got != DefaultProbeTimeout {
		t.Errorf("probe_timeout = %v, want %v", got, DefaultProbeTimeout)
	}
	if got := viper.GetString(KeyDefaultStrategy); got != "overwrite" {
		t.Errorf("default_strategy = %q, want overwrite", got)
	}
	if got := viper.GetString(KeyDefaultProfile); got != "full" {
		t.Errorf("default_profile = %q, want full", got)
	}
	if viper.GetString(KeyRemotesFile) == "" {
		t.Error("remotes_file default is empty")
	}
	if viper.GetBool(KeyStrictTypes) {
		t.Error("strict_types defaults to true")
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()
	Init()

	path := writeConfig(t, "catalog_path: /etc/ccm/profiles.yaml\nprobe_timeout: 10s\ndefault_strategy: merge\ndefault_profile: backend\nstrict_types: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.CatalogPath != "/etc/ccm/profiles.yaml" {
		t.Errorf("CatalogPath = %q", cfg.CatalogPath)
	}
	if cfg.ProbeTimeout != 10*time.Second {
		t.Errorf("ProbeTimeout = %v, want 10s", cfg.ProbeTimeout)
	}
	if cfg.DefaultStrategy != "merge" {
		t.Errorf("DefaultStrategy = %q, want merge", cfg.DefaultStrategy)
	}
	if cfg.DefaultProfile != "backend" {
		t.Errorf("DefaultProfile = %q, want backend", cfg.DefaultProfile)
	}
	if !cfg.StrictTypes {
		t.Error("StrictTypes = false, want true")
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	t.Setenv("HOME", home)
	Init()

	cfg, err := Load(writeConfig(t, "catalog_path: ~/ccm/profiles.yaml\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(home, "ccm", "profiles.yaml"); cfg.CatalogPath != want {
		t.Errorf("CatalogPath = %q, want %q", cfg.CatalogPath, want)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("CCM_DEFAULT_PROFILE", "frontend")
	t.Setenv("CCM_PROBE_TIMEOUT", "2s")
	Init()

	cfg, err := Load(writeConfig(t, "default_profile: backend\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultProfile != "frontend" {
		t.Errorf("DefaultProfile = %q, want frontend", cfg.DefaultProfile)
	}
	if cfg.ProbeTimeout != 2*time.Second {
		t.Errorf("ProbeTimeout = %v, want 2s", cfg.ProbeTimeout)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	viper.Reset()
	Init()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil, want error")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"version", "version: 0\n", ErrVersionTooLow},
		{"timeout", "probe_timeout: 0s\n", ErrInvalidTimeout},
		{"strategy", "default_strategy: union\n", ErrInvalidStrategy},
		{"path", "catalog_path: \".\"\n", ErrInvalidPath},
		{"syntax", "version: [\n", errors.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			Init()

			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("Load() error = %v, not marked invalid config", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Errorf("Validate(Default()) = %v, want none", errs)
	}
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want 1 error", errs)
	}

	cfg := Default()
	cfg.Version = 0
	cfg.ProbeTimeout = -time.Second
	cfg.RemotesFile = "bad\x00path"
	errs := Validate(cfg)
	if len(errs) != 3 {
		t.Fatalf("Validate() = %v, want 3 errors", errs)
	}

	var pathErr *PathError
	if !errors.As(errs[2], &pathErr) {
		t.Fatalf("errs[2] = %T, want *PathError", errs[2])
	}
	if pathErr.Field != "remotes_file" {
		t.Errorf("PathError.Field = %q, want remotes_file", pathErr.Field)
	}
}

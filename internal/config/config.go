// Package config provides configuration management for ccm using Viper.
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/paths"
)

// EnvPrefix is the prefix for environment overrides (CCM_CATALOG_PATH, ...).
const EnvPrefix = "CCM"

// Config keys.
const (
	KeyVersion         = "version"
	KeyCatalogPath     = "catalog_path"
	KeyProbeTimeout    = "probe_timeout"
	KeyRemotesFile     = "remotes_file"
	KeyDefaultStrategy = "default_strategy"
	KeyDefaultProfile  = "default_profile"
	KeyStrictTypes     = "strict_types"
)

// Defaults.
const (
	DefaultVersion      = 1
	DefaultProbeTimeout = 5 * time.Second
	DefaultStrategy     = "overwrite"
	DefaultProfile      = "full"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// CatalogPath overrides the embedded profile catalog. Empty uses the
	// file at paths.CatalogFile() when it exists.
	CatalogPath string `mapstructure:"catalog_path" yaml:"catalog_path,omitempty"`

	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`

	RemotesFile     string `mapstructure:"remotes_file" yaml:"remotes_file"`
	DefaultStrategy string `mapstructure:"default_strategy" yaml:"default_strategy"`
	DefaultProfile  string `mapstructure:"default_profile" yaml:"default_profile"`

	// StrictTypes makes validate fail on unrecognized MCP server types.
	StrictTypes bool `mapstructure:"strict_types" yaml:"strict_types"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Version:         DefaultVersion,
		ProbeTimeout:    DefaultProbeTimeout,
		RemotesFile:     paths.RemotesFile(),
		DefaultStrategy: DefaultStrategy,
		DefaultProfile:  DefaultProfile,
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault(KeyVersion, d.Version)
	viper.SetDefault(KeyCatalogPath, d.CatalogPath)
	viper.SetDefault(KeyProbeTimeout, d.ProbeTimeout)
	viper.SetDefault(KeyRemotesFile, d.RemotesFile)
	viper.SetDefault(KeyDefaultStrategy, d.DefaultStrategy)
	viper.SetDefault(KeyDefaultProfile, d.DefaultProfile)
	viper.SetDefault(KeyStrictTypes, d.StrictTypes)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file and a missing file
// is an error. If path is empty, the search paths are tried and a missing
// file falls back to defaults and environment overrides.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrNotFound)
		default:
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}

	for _, p := range []*string{&cfg.CatalogPath, &cfg.RemotesFile} {
		expanded, err := paths.Expand(*p)
		if err != nil {
			return nil, errors.Mark(err, errors.ErrInvalidConfig)
		}
		*p = expanded
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Join(errs...), errors.ErrInvalidConfig)
	}
	return &cfg, nil
}

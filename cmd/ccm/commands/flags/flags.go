// Package flags provides shared flag accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (profile, backup, remote, bundle).
package flags

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/ccm/internal/cli/prompt"
	"github.com/thoreinstein/ccm/internal/config"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/paths"
	"github.com/thoreinstein/ccm/internal/profile"
	"github.com/thoreinstein/ccm/internal/remote"
)

// sourceFlag holds the value of the --source flag.
var sourceFlag string

// cfg holds the loaded tool configuration.
var cfg *config.Config

// GetSource returns the --source directory as an absolute path. An unset
// flag means the working directory.
func GetSource() (string, error) {
	dir := sourceFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "resolving working directory")
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", dir)
	}
	return abs, nil
}

// SetSource sets the source directory.
func SetSource(dir string) {
	sourceFlag = dir
}

// GetConfig returns the loaded configuration, or the defaults when none
// was loaded.
func GetConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// SetConfig sets the configuration returned by GetConfig.
func SetConfig(c *config.Config) {
	cfg = c
}

// CatalogPath returns the profile catalog override: the configured path,
// else the catalog file in the tool config directory.
func CatalogPath() string {
	if p := GetConfig().CatalogPath; p != "" {
		return p
	}
	return paths.CatalogFile()
}

// LoadCatalog loads the profile catalog, falling back to an empty one.
func LoadCatalog(logger *slog.Logger) *profile.Catalog {
	return profile.LoadOrEmpty(CatalogPath(), logger)
}

// Remotes returns the remote registry at the configured location with
// working clones under the tool cache directory.
func Remotes(logger *slog.Logger) *remote.Registry {
	file := GetConfig().RemotesFile
	if file == "" {
		file = paths.RemotesFile()
	}
	return remote.NewRegistry(file,
		remote.WithLogger(logger),
		remote.WithTempDir(paths.CacheDir()))
}

// ResolveProfile returns name when set. Otherwise an interactive terminal
// gets a fuzzy picker over c, and a non-interactive run uses the configured
// default profile.
func ResolveProfile(name string, c *profile.Catalog) (string, error) {
	if name != "" {
		return name, nil
	}
	if !logging.IsInteractive() {
		return GetConfig().DefaultProfile, nil
	}
	selected, err := prompt.FuzzySelectProfile(c)
	if err != nil {
		return "", errors.NewUserError(err, "Pass --profile to choose a profile non-interactively")
	}
	return selected, nil
}

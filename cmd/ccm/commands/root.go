// Package commands implements the CLI commands for ccm.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd"
	"github.com/thoreinstein/ccm/cmd/ccm/commands/backup"
	"github.com/thoreinstein/ccm/cmd/ccm/commands/bundle"
	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/cmd/ccm/commands/profile"
	"github.com/thoreinstein/ccm/cmd/ccm/commands/remote"
	"github.com/thoreinstein/ccm/internal/config"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/store"
)

// sourceFlag holds the value of the --source flag.
var sourceFlag string

// configFile holds the value of the --config flag.
var configFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&sourceFlag, "source", "s", "",
		"source configuration directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml or ~/.config/ccm/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("ccm version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(backup.Cmd)
	rootCmd.AddCommand(bundle.Cmd)
	rootCmd.AddCommand(profile.Cmd)
	rootCmd.AddCommand(remote.Cmd)

	store.Version = cmd.Version
}

func initConfig() {
	config.Init()
	var cfg *config.Config
	cfg, configLoadErr = config.Load(configFile)
	flags.SetConfig(cfg)
}

var rootCmd = &cobra.Command{
	Use:   "ccm",
	Short: "Manage Claude Code project configurations from profiles",
	Long: `ccm builds and maintains Claude Code project configuration from a
source directory and a catalog of named profiles.

A profile selects MCP servers from the source .mcp.json and skills from
.claude/skills. ccm merges that selection into new or existing projects,
backs the target up before every change, exports and imports bundles,
validates projects, and syncs configuration through git remotes.`,
	Example: `  # Create a project from the backend profile
  ccm create --target ~/src/api --profile backend --git

  # Merge the frontend profile into an existing project
  ccm import --target ~/src/web --profile frontend --strategy merge

  # Check a project
  ccm validate -s ~/src/api

  See Also: ccm profile list, ccm backup list, ccm remote list`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return validateGlobalFlags(cmd, args)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	cfg := logging.Config{
		Format: logging.Format(logFormat),
		Output: cmd.ErrOrStderr(),
	}
	switch {
	case quiet:
		cfg.Level = slog.LevelError
	case verbosity > 0:
		cfg.Level = logging.LevelFromVerbosity(verbosity)
	default:
		cfg.Level = logging.LevelFromVerbosity(logging.EnvVerbosity())
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		cfg.File = f
	}

	logger := logging.New(cfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// validateGlobalFlags reports config load errors and checks --source.
func validateGlobalFlags(cmd *cobra.Command, _ []string) error {
	// Skip validation for help and version commands
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	flags.SetSource(sourceFlag)
	if sourceFlag != "" {
		info, err := os.Stat(sourceFlag)
		if err != nil || !info.IsDir() {
			return errors.NewUserError(
				errors.Newf("source directory %q does not exist", sourceFlag),
				"Pass an existing directory to --source")
		}
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return errors.Classify(rootCmd.Execute())
}

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/cli/prompt"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/merge"
	"github.com/thoreinstein/ccm/internal/store"
)

var (
	importTarget   string
	importProfile  string
	importStrategy string
	importLabel    string
	importYes      bool
)

func init() {
	importCmd.Flags().StringVarP(&importTarget, "target", "t", "", "target project directory")
	importCmd.Flags().StringVarP(&importProfile, "profile", "p", "",
		"configuration profile to use (default: picker on a terminal, else default_profile)")
	importCmd.Flags().StringVar(&importStrategy, "strategy", "",
		"merge strategy for existing configuration: overwrite, merge (default: default_strategy)")
	importCmd.Flags().StringVar(&importLabel, "backup-label", "", "name the pre-import backup (default: timestamp)")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "do not ask before changing existing configuration")
	_ = importCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a profile's configuration into an existing project",
	Long: `Import the servers and skills of a profile into an existing project.

The target is backed up before anything changes. With the overwrite
strategy the target's .mcp.json becomes the profile's servers; with merge
the profile's servers are added and win on name conflicts. Selected skills
replace the target's copies; hooks, output styles and .env.example are
only created when missing.`,
	Example: `  # Overwrite the project's servers with the frontend profile
  ccm import --target ~/src/web --profile frontend

  # Add the backend profile's servers to those already configured
  ccm import -t ~/src/api -p backend --strategy merge --yes

  # Keep a named backup to restore later
  ccm import -t ~/src/api -p backend --backup-label before-backend

  See Also: ccm backup restore, ccm validate`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, _ []string) error {
	return runImportWithIO(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), logging.IsInteractive())
}

// runImportWithIO allows injecting IO for testing. interactive reports
// whether a confirmation may be asked on r.
func runImportWithIO(ctx context.Context, r io.Reader, w io.Writer, interactive bool) error {
	logger := logging.FromContext(ctx)

	if info, err := os.Stat(importTarget); err != nil || !info.IsDir() {
		return errors.NewUserError(
			errors.Newf("target directory %q does not exist", importTarget),
			"Use ccm create for a new project")
	}

	strategyName := importStrategy
	if strategyName == "" {
		strategyName = flags.GetConfig().DefaultStrategy
	}
	strategy, err := merge.ParseStrategy(strategyName)
	if err != nil {
		return errors.NewUserError(err, "Use --strategy overwrite or --strategy merge")
	}

	sourceDir, err := flags.GetSource()
	if err != nil {
		return err
	}
	catalog := flags.LoadCatalog(logger)

	name, err := flags.ResolveProfile(importProfile, catalog)
	if err != nil {
		return err
	}
	p, ok := catalog.Get(name)
	if !ok {
		cli.Failure(w, "Unknown profile: %s", name)
		return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "profile %q", name), "Run: ccm profile list")
	}

	target := store.New(importTarget, store.WithLogger(logger))
	if target.HasConfig() && !importYes {
		if !interactive {
			return errors.NewUserError(
				errors.Newf("target %s already has configuration", importTarget),
				"Pass --yes to import anyway; a backup is created first")
		}
		fmt.Fprintf(w, "Target project already has configuration at %s\n", importTarget)
		fmt.Fprintf(w, "Strategy: %s (backup will be created)\n", strategy)
		ok, err := prompt.NewPrompterWithIO(r, w).Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	fmt.Fprintf(w, "Importing '%s' configuration to %s...\n", name, importTarget)

	engine := merge.New(merge.WithLogger(logger))
	source := store.New(sourceDir, store.WithLogger(logger))
	opts := merge.ProfileOptions(p, catalog, strategy)
	opts.BackupLabel = importLabel
	res, err := engine.Merge(target, source, opts)
	if err != nil {
		cli.Failure(w, "Import failed: %v", err)
		return err
	}

	cli.Success(w, "Configuration imported successfully!")
	cli.PrintResult(w, res)
	return nil
}

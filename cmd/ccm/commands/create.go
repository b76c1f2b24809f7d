package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/merge"
	"github.com/thoreinstein/ccm/internal/store"
)

var (
	createTarget  string
	createProfile string
	createGit     bool
)

func init() {
	createCmd.Flags().StringVarP(&createTarget, "target", "t", "", "target directory for the new project")
	createCmd.Flags().StringVarP(&createProfile, "profile", "p", "",
		"configuration profile to use (default: picker on a terminal, else default_profile)")
	createCmd.Flags().BoolVar(&createGit, "git", false, "initialize a git repository")
	_ = createCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new project with Claude Code configuration",
	Long: `Create a project directory configured from a profile.

The profile's MCP servers and skills are copied from the source directory,
hooks, output styles and .env.example are added, and a CLAUDE-CONFIG.md
guide describing the profile is written. With --git the directory is also
initialized as a git repository with a .gitignore.`,
	Example: `  # Create a backend project
  ccm create --target ~/src/api --profile backend

  # Pick the profile interactively and initialize git
  ccm create -t ~/src/api --git

  See Also: ccm profile list, ccm import`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, _ []string) error {
	return runCreateWithWriter(cmd.Context(), cmd.OutOrStdout())
}

func runCreateWithWriter(ctx context.Context, w io.Writer) error {
	logger := logging.FromContext(ctx)

	sourceDir, err := flags.GetSource()
	if err != nil {
		return err
	}
	catalog := flags.LoadCatalog(logger)

	name, err := flags.ResolveProfile(createProfile, catalog)
	if err != nil {
		return err
	}

	target, err := filepath.Abs(createTarget)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", createTarget)
	}

	fmt.Fprintf(w, "Creating new project at %s with profile '%s'...\n", target, name)

	engine := merge.New(merge.WithLogger(logger))
	source := store.New(sourceDir, store.WithLogger(logger))
	res, err := engine.CreateProject(ctx, target, source, catalog, name, merge.CreateOptions{InitGit: createGit})
	if err != nil {
		cli.Failure(w, "Failed to create project: %v", err)
		return err
	}

	cli.Success(w, "Project created successfully!")
	cli.PrintResult(w, res.Result)
	fmt.Fprintf(w, "  Guide: %s\n", res.ReadmePath)
	if res.GitInitialized {
		fmt.Fprintln(w, "  Git: initialized")
	}
	return nil
}

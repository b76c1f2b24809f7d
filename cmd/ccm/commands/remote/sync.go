package remote

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/merge"
	"github.com/thoreinstein/ccm/internal/profile"
	"github.com/thoreinstein/ccm/internal/remote"
	"github.com/thoreinstein/ccm/internal/store"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

var (
	pullTarget  string
	pullProfile string
	pushMessage string
)

func init() {
	pullCmd.Flags().StringVarP(&pullTarget, "target", "t", "", "project to apply the configuration to (default: --source)")
	pullCmd.Flags().StringVarP(&pullProfile, "profile", "p", "", "profile to apply (default: default_profile)")
	pushCmd.Flags().StringVarP(&pushMessage, "message", "m", remote.DefaultCommitMessage, "commit message")
	Cmd.AddCommand(pullCmd)
	Cmd.AddCommand(pushCmd)
	Cmd.AddCommand(profilesCmd)
}

var pullCmd = &cobra.Command{
	Use:   "pull <name>",
	Short: "Apply a profile from a remote repository to a project",
	Long: `Clone the remote and merge one of its profiles into the target with
the overwrite strategy. The profile comes from the repository's
config/profiles.json, falling back to the local catalog when the
repository has none. The target is backed up first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPullWithWriter(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

var pushCmd = &cobra.Command{
	Use:   "push <name>",
	Short: "Publish the source configuration to a remote repository",
	Long: `Clone the remote, copy .mcp.json, .claude/, .env.example and
config/profiles.json from the source directory into it, and commit and
push when anything changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPushWithWriter(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles <name>",
	Short: "List the profiles a remote repository declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfilesWithWriter(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func runPullWithWriter(ctx context.Context, w io.Writer, name string) error {
	logger := logging.FromContext(ctx)
	reg := flags.Remotes(logger)

	targetDir := pullTarget
	if targetDir == "" {
		var err error
		if targetDir, err = flags.GetSource(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Pulling configuration from '%s'...\n", name)

	co, err := reg.Pull(ctx, name)
	if err != nil {
		cli.Failure(w, "Pull failed: %v", err)
		return err
	}
	defer func() { _ = co.Cleanup() }()

	catalog := flags.LoadCatalog(logger)
	if fileutil.Exists(co.CatalogPath()) {
		if catalog, err = profile.LoadFile(co.CatalogPath()); err != nil {
			cli.Failure(w, "Pull failed: %v", err)
			return err
		}
	}
	profileName := pullProfile
	if profileName == "" {
		profileName = flags.GetConfig().DefaultProfile
	}
	p, ok := catalog.Get(profileName)
	if !ok {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "profile %q in remote %q", profileName, name),
			"Run: ccm remote profiles "+name)
	}

	engine := merge.New(merge.WithLogger(logger))
	target := store.New(targetDir, store.WithLogger(logger))
	res, err := engine.Merge(target, co.Store(store.WithLogger(logger)),
		merge.ProfileOptions(p, catalog, merge.StrategyOverwrite))
	if err != nil {
		cli.Failure(w, "Pull failed: %v", err)
		return err
	}

	cli.Success(w, "Pulled '%s' configuration", profileName)
	cli.PrintResult(w, res)
	return nil
}

func runPushWithWriter(ctx context.Context, w io.Writer, name string) error {
	logger := logging.FromContext(ctx)
	sourceDir, err := flags.GetSource()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Pushing configuration to '%s'...\n", name)

	pushed, err := flags.Remotes(logger).Push(ctx, store.New(sourceDir, store.WithLogger(logger)), name, pushMessage)
	if err != nil {
		cli.Failure(w, "Push failed: %v", err)
		return err
	}
	if !pushed {
		fmt.Fprintln(w, "Remote is already up to date.")
		return nil
	}
	cli.Success(w, "Configuration pushed successfully!")
	return nil
}

func runProfilesWithWriter(ctx context.Context, w io.Writer, name string) error {
	names, err := flags.Remotes(logging.FromContext(ctx)).ListProfiles(ctx, name)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(w, "Remote '%s' has no config/profiles.json.\n", name)
		return nil
	}
	cli.Heading(w, "Profiles in '%s' (%d):", name, len(names))
	cli.Bullets(w, names)
	return nil
}

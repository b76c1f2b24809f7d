package remote

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/git"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/remote"
)

var branchFlag string

func init() {
	addCmd.Flags().StringVarP(&branchFlag, "branch", "b", remote.DefaultBranch, "remote branch")
	Cmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add a remote configuration repository",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := flags.Remotes(logging.FromContext(cmd.Context()))
		return runAddWithWriter(cmd.OutOrStdout(), reg, args[0], args[1])
	},
}

func runAddWithWriter(w io.Writer, reg *remote.Registry, name, url string) error {
	rm, err := reg.Add(name, url, branchFlag)
	if err != nil {
		cli.Failure(w, "%v", err)
		return handleAddError(err)
	}
	cli.Success(w, "Added remote '%s'", rm.Name)
	fmt.Fprintf(w, "  URL: %s\n  Branch: %s\n", rm.URL, rm.Branch)
	return nil
}

// handleAddError attaches a suggestion for known error types.
func handleAddError(err error) error {
	switch {
	case errors.Is(err, git.ErrInvalidURL):
		return errors.NewUserError(err, "Use an https://, ssh://, git:// or user@host:path.git URL")
	case errors.Is(err, remote.ErrNameCollision):
		return errors.NewUserError(err, "Remove it first with: ccm remote remove <name>")
	case errors.Is(err, remote.ErrInvalidName):
		return errors.NewUserError(err, "Names are lowercase letters, digits and hyphens")
	default:
		return err
	}
}

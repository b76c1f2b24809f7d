package remote

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/remote"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(removeCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured remote repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.OutOrStdout(), flags.Remotes(logging.FromContext(cmd.Context())))
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a remote configuration repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRemoveWithWriter(cmd.OutOrStdout(), flags.Remotes(logging.FromContext(cmd.Context())), args[0])
	},
}

func runListWithWriter(w io.Writer, reg *remote.Registry) error {
	remotes, err := reg.List()
	if err != nil {
		return errors.Wrap(err, "listing remotes")
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(remotes), "encoding output")
	}

	if len(remotes) == 0 {
		fmt.Fprintln(w, "No remote repositories configured.")
		return nil
	}

	fmt.Fprintln(w, "Configured remotes:")
	fmt.Fprintln(w)
	for _, rm := range remotes {
		fmt.Fprintf(w, "  %s\n", rm.Name)
		fmt.Fprintf(w, "    URL: %s\n", rm.URL)
		fmt.Fprintf(w, "    Branch: %s\n", rm.Branch)
		fmt.Fprintln(w)
	}
	return nil
}

func runRemoveWithWriter(w io.Writer, reg *remote.Registry, name string) error {
	if err := reg.Remove(name); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			cli.Failure(w, "Remote '%s' not found", name)
			return errors.NewUserError(err, "Run: ccm remote list")
		}
		return err
	}
	cli.Success(w, "Removed remote '%s'", name)
	return nil
}

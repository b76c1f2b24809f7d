package profile

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/editor"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/profile"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

// opener opens a file for interactive editing.
type opener interface {
	Open(ctx context.Context, path string) error
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the profile catalog in $EDITOR",
	Long: `Open the catalog override in $EDITOR ($VISUAL, nano and vi are tried next).

If the override does not exist yet it is seeded with the built-in catalog.
The file is validated after the editor exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ed := &editor.Editor{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
		return runEditWithWriter(cmd.Context(), cmd.OutOrStdout(), ed, flags.CatalogPath())
	},
}

func runEditWithWriter(ctx context.Context, w io.Writer, ed opener, path string) error {
	logger := logging.FromContext(ctx)

	if !fileutil.Exists(path) {
		if err := fileutil.AtomicWriteFile(path, profile.DefaultData(), 0o644); err != nil {
			return errors.Wrap(err, "seeding profile catalog")
		}
		logger.Info("seeded profile catalog", "path", path)
	}

	fmt.Fprintf(w, "Location: %s\n", path)
	if err := ed.Open(ctx, path); err != nil {
		return errors.NewUserError(err, "Set $EDITOR to an installed editor")
	}

	c, err := profile.LoadFile(path)
	if err != nil {
		return errors.NewUserError(err, "Fix the catalog and run: ccm profile edit")
	}
	cli.Success(w, "Catalog valid: %d profiles", c.Len())
	return nil
}

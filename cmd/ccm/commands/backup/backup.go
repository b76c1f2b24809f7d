// Package backup provides CLI commands for managing project backups.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/store"
)

var (
	targetFlag string
	listJSON   bool
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage project configuration backups",
	Long: `Manage the backups ccm creates before changing a project.

Every create, import and bundle import copies the target's .mcp.json,
.claude directory and .env.example into <project>/.backup-claude-<label>/
before writing anything.`,
	Example: `  # List backups of a project
  ccm backup list --target ~/src/api

  # Restore the most recent backup
  ccm backup restore --target ~/src/api

  # Restore a specific backup
  ccm backup restore 20260123_100712 --target ~/src/api`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := targetStore(cmd)
		if err != nil {
			return err
		}
		return runListWithWriter(cmd.OutOrStdout(), s)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [label]",
	Short: "Restore a backup (default: the most recent)",
	Long: `Restore a backup into the project.

Artifacts present in the backup replace the live copies. Artifacts that
were absent when the backup was taken are left alone. Each file is checked
against the hash recorded in the backup manifest before anything is
written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := targetStore(cmd)
		if err != nil {
			return err
		}
		label := ""
		if len(args) == 1 {
			label = args[0]
		}
		return runRestoreWithWriter(cmd.OutOrStdout(), s, label)
	},
}

func init() {
	Cmd.PersistentFlags().StringVarP(&targetFlag, "target", "t", "",
		"project directory (default: --source)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(restoreCmd)
}

func targetStore(cmd *cobra.Command) (*store.Store, error) {
	dir := targetFlag
	if dir == "" {
		var err error
		if dir, err = flags.GetSource(); err != nil {
			return nil, err
		}
	}
	return store.New(dir, store.WithLogger(logging.FromContext(cmd.Context()))), nil
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	Label       string    `json:"label"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
	FileCount   int       `json:"file_count"`
	ToolVersion string    `json:"tool_version"`
}

func runListWithWriter(w io.Writer, s *store.Store) error {
	handles, err := s.ListBackups()
	if err != nil {
		return errors.Wrap(err, "listing backups")
	}

	if listJSON {
		output := make([]infoOutput, len(handles))
		for i, h := range handles {
			output[i] = infoOutput{
				Label:       h.Label,
				Path:        h.Path,
				CreatedAt:   h.CreatedAt,
				FileCount:   len(h.Files),
				ToolVersion: h.ToolVersion,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(output), "encoding output")
	}

	if len(handles) == 0 {
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before ccm modifies a project.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tCREATED\tFILES\tVERSION")
	for _, h := range handles {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			h.Label,
			h.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			len(h.Files),
			h.ToolVersion)
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

func runRestoreWithWriter(w io.Writer, s *store.Store, label string) error {
	var h *store.BackupHandle
	if label == "" {
		handles, err := s.ListBackups()
		if err != nil {
			return errors.Wrap(err, "listing backups")
		}
		if len(handles) == 0 {
			return errors.NewUserError(errors.Wrap(errors.ErrNotFound, "no backups"), "Run: ccm backup list")
		}
		h = &handles[0]
	} else {
		var err error
		if h, err = s.FindBackup(label); err != nil {
			return errors.NewUserError(err, "Run: ccm backup list")
		}
	}

	if err := s.Restore(h); err != nil {
		cli.Failure(w, "Restore failed: %v", err)
		return err
	}
	cli.Success(w, "Restored backup %s", h.Label)
	return nil
}

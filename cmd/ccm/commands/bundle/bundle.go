// Package bundle provides CLI commands for configuration bundles.
package bundle

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/bundle"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/merge"
	"github.com/thoreinstein/ccm/internal/store"
)

var (
	targetFlag   string
	strategyFlag string
)

// Cmd is the root bundle command.
var Cmd = &cobra.Command{
	Use:   "bundle",
	Short: "Work with exported configuration bundles",
	Long: `Work with bundle files written by ccm export.

A bundle records the .mcp.json servers, the .env.example variables and the
names of skills, hooks and output styles. Importing a bundle applies the
servers and variables; skill contents are not part of a bundle.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Apply a bundle's servers and variables to a project",
	Example: `  ccm bundle import claude-config-export.json --target ~/src/api
  ccm bundle import team.yaml --strategy merge`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportWithWriter(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	importCmd.Flags().StringVarP(&targetFlag, "target", "t", "", "project directory (default: --source)")
	importCmd.Flags().StringVar(&strategyFlag, "strategy", "",
		"merge strategy: overwrite, merge (default: default_strategy)")
	Cmd.AddCommand(importCmd)
}

func runImportWithWriter(ctx context.Context, w io.Writer, path string) error {
	logger := logging.FromContext(ctx)

	dir := targetFlag
	if dir == "" {
		var err error
		if dir, err = flags.GetSource(); err != nil {
			return err
		}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.NewUserError(errors.Newf("target directory %q does not exist", dir), "")
	}

	name := strategyFlag
	if name == "" {
		name = flags.GetConfig().DefaultStrategy
	}
	strategy, err := merge.ParseStrategy(name)
	if err != nil {
		return errors.NewUserError(err, "Use --strategy overwrite or --strategy merge")
	}

	b, err := bundle.ReadFile(path)
	if err != nil {
		cli.Failure(w, "Import failed: %v", err)
		return err
	}

	fmt.Fprintf(w, "Importing bundle %s into %s...\n", path, dir)

	engine := merge.New(merge.WithLogger(logger))
	res, err := engine.Import(store.New(dir, store.WithLogger(logger)), b, strategy)
	if err != nil {
		cli.Failure(w, "Import failed: %v", err)
		return err
	}

	cli.Success(w, "Bundle imported successfully!")
	cli.PrintResult(w, res)
	if len(b.Skills) > 0 {
		fmt.Fprintf(w, "  Bundle lists %d skills; copy their directories separately.\n", len(b.Skills))
	}
	return nil
}

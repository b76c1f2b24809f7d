package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/bundle"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/merge"
	"github.com/thoreinstein/ccm/internal/store"
)

// DefaultExportFile is written in the source directory when --output is
// not given.
const DefaultExportFile = "claude-config-export.json"

var (
	exportOutput  string
	exportProfile string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"output file; .yaml, .yml and .toml select those formats, - writes JSON to stdout (default: <source>/"+DefaultExportFile+")")
	exportCmd.Flags().StringVarP(&exportProfile, "profile", "p", "", "export only this profile's servers and skills")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export configuration to a single bundle file",
	Long: `Export the source configuration to a bundle file.

The bundle carries the full .mcp.json server table, the .env.example
variables and the names of skills, hooks and output styles. Skill, hook and
style contents are not included. Import a bundle with: ccm bundle import.`,
	Example: `  # Export everything
  ccm export

  # Export the backend profile as YAML
  ccm export --profile backend --output backend.yaml

  # Print the bundle
  ccm export -o -

  See Also: ccm bundle import`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, _ []string) error {
	return runExportWithWriter(cmd.Context(), cmd.OutOrStdout())
}

func runExportWithWriter(ctx context.Context, w io.Writer) error {
	logger := logging.FromContext(ctx)

	sourceDir, err := flags.GetSource()
	if err != nil {
		return err
	}

	output := exportOutput
	if output == "" {
		output = filepath.Join(sourceDir, DefaultExportFile)
	}

	opts := merge.ExportOptions{Profile: exportProfile}
	if exportProfile != "" {
		catalog := flags.LoadCatalog(logger)
		p, ok := catalog.Get(exportProfile)
		if !ok {
			return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "profile %q", exportProfile), "Run: ccm profile list")
		}
		sel := merge.ProfileOptions(p, nil, merge.StrategyOverwrite)
		opts.Servers = sel.Servers
		opts.Skills = sel.Skills
	}

	engine := merge.New(merge.WithLogger(logger))
	src := store.New(sourceDir, store.WithLogger(logger))

	if output == "-" {
		b, err := engine.Export(src, opts)
		if err != nil {
			return err
		}
		data, err := bundle.Encode(b, bundle.FormatJSON)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "writing bundle")
	}

	fmt.Fprintf(w, "Exporting configuration to %s...\n", output)

	b, err := engine.Export(src, opts)
	if err != nil {
		cli.Failure(w, "Export failed: %v", err)
		return err
	}
	if err := bundle.WriteFile(output, b); err != nil {
		cli.Failure(w, "Export failed: %v", err)
		return err
	}

	cli.Success(w, "Exported to %s", output)
	return nil
}

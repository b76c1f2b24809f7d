package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/ccm/internal/errors"
)

var (
	docsDir    string
	docsFormat string
)

var genDocsCmd = &cobra.Command{
	Use:    "gen-docs",
	Short:  "Generate the CLI reference as Markdown or man pages",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGenDocs(cmd.OutOrStdout(), docsDir, docsFormat)
	},
}

func init() {
	genDocsCmd.Flags().StringVarP(&docsDir, "dir", "d", "", "output directory (required)")
	genDocsCmd.Flags().StringVar(&docsFormat, "format", "markdown", "output format: markdown, man")
	_ = genDocsCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(genDocsCmd)
}

func runGenDocs(w io.Writer, dir, format string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	rootCmd.DisableAutoGenTag = true
	var err error
	switch format {
	case "markdown", "md":
		err = doc.GenMarkdownTreeCustom(rootCmd, dir, docFrontmatter, docLink)
	case "man":
		err = doc.GenManTree(rootCmd, &doc.GenManHeader{Title: "CCM", Section: "1"}, dir)
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", format), "Use --format markdown or --format man")
	}
	if err != nil {
		return errors.Wrap(err, "generating documentation")
	}

	fmt.Fprintf(w, "Documentation generated in %s\n", dir)
	return nil
}

// docFrontmatter titles ccm_remote_add.md as "ccm remote add".
func docFrontmatter(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(base, "_", " ")
	return fmt.Sprintf("---\ntitle: %q\ndescription: %q\n---\n\n", title, "Reference for "+title)
}

func docLink(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "/"
}

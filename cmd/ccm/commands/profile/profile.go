// Package profile provides CLI commands for browsing the profile catalog.
package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/profile"
	"github.com/thoreinstein/ccm/internal/resolver"
)

var listJSON bool

// Cmd is the root profile command.
var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "Browse configuration profiles",
	Long: `Browse the profile catalog.

The catalog is read from catalog_path in the ccm config, else from
~/.config/ccm/profiles.json, else the built-in catalog is used.`,
	Example: `  ccm profile list
  ccm profile show backend
  ccm profile edit`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := flags.LoadCatalog(logging.FromContext(cmd.Context()))
		return runListWithWriter(cmd.OutOrStdout(), c)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the servers, skills and variables of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := flags.LoadCatalog(logging.FromContext(cmd.Context()))
		return runShowWithWriter(cmd.OutOrStdout(), c, args[0])
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(editCmd)
}

func runListWithWriter(w io.Writer, c *profile.Catalog) error {
	summaries := make([]profile.Summary, 0, c.Len())
	for _, name := range c.Names() {
		s, _ := c.Summary(name)
		summaries = append(summaries, s)
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(summaries), "encoding output")
	}

	if len(summaries) == 0 {
		fmt.Fprintln(w, "No profiles available.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFILE\tSERVERS\tSKILLS\tDESCRIPTION")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.Key, s.MCPCount, s.SkillCount, s.Description)
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

func runShowWithWriter(w io.Writer, c *profile.Catalog, name string) error {
	s, ok := c.Summary(name)
	if !ok {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "profile %q", name),
			"Available profiles: "+strings.Join(c.Names(), ", "))
	}

	cli.Heading(w, "%s (%s)", s.Name, s.Key)
	if s.Description != "" {
		fmt.Fprintln(w, s.Description)
	}
	fmt.Fprintln(w)
	cli.Heading(w, "MCP Servers (%d):", s.MCPCount)
	cli.Bullets(w, s.MCPServers)
	fmt.Fprintln(w)
	cli.Heading(w, "Skills (%d):", s.SkillCount)
	cli.Bullets(w, s.Skills)

	if len(s.EnvVars) > 0 {
		fmt.Fprintln(w)
		cli.Heading(w, "Required Environment Variables:")
		cli.Bullets(w, s.EnvVars)
	}

	if gaps := resolver.New(c.Dependencies()).Gaps(s.MCPServers, s.Skills); len(gaps) > 0 {
		fmt.Fprintln(w)
		cli.Warn(w, "Skills depending on servers outside this profile:")
		for _, g := range gaps {
			cli.Warn(w, "  - %s", g)
		}
	}
	return nil
}

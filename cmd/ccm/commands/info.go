package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/store"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show current configuration information",
	Long:  `List the MCP servers, skills, hooks and output styles configured in the source directory.`,
	Example: `  ccm info
  ccm info -s ~/src/api`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, _ []string) error {
	return runInfoWithWriter(cmd.Context(), cmd.OutOrStdout())
}

func runInfoWithWriter(ctx context.Context, w io.Writer) error {
	dir, err := flags.GetSource()
	if err != nil {
		return err
	}
	s := store.New(dir, store.WithLogger(logging.FromContext(ctx)))

	fmt.Fprintf(w, "Project: %s\n\n", dir)

	if !s.HasConfig() {
		cli.Warn(w, "No Claude Code configuration found.")
		return nil
	}

	var servers []string
	if s.HasRegistry() {
		reg, err := s.ReadRegistry()
		if err != nil {
			return errors.NewUserError(err, "Fix the file or run: ccm validate")
		}
		servers = reg.Names()
	}
	skills, err := describeSkills(ctx, s)
	if err != nil {
		return err
	}
	hooks, err := s.ListHooks()
	if err != nil {
		return err
	}
	styles, err := s.ListOutputStyles()
	if err != nil {
		return err
	}

	sections := []struct {
		title string
		items []string
	}{
		{"MCP Servers", servers},
		{"Skills", skills},
		{"Hooks", hooks},
		{"Output Styles", styles},
	}
	for i, sec := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		cli.Heading(w, "%s (%d):", sec.title, len(sec.items))
		cli.Bullets(w, sec.items)
	}
	return nil
}

// describeSkills lists skills as "name - description" when the SKILL.md
// header carries one.
func describeSkills(ctx context.Context, s *store.Store) ([]string, error) {
	names, err := s.ListSkills()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		desc, err := s.SkillDescription(name)
		if err != nil {
			logging.FromContext(ctx).Warn("unreadable skill header", "skill", name, "error", err)
		}
		if desc == "" {
			out = append(out, name)
			continue
		}
		out = append(out, name+" - "+desc)
	}
	return out, nil
}

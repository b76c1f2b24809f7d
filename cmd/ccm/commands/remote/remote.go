// Package remote provides CLI commands for git remotes that hold shared
// configuration.
package remote

import (
	"github.com/spf13/cobra"
)

// Cmd is the root remote command.
var Cmd = &cobra.Command{
	Use:   "remote",
	Short: "Sync configuration through git repositories",
	Long: `Manage git repositories that hold shared Claude Code configuration.

A configuration repository has the same layout as a project (.mcp.json,
.claude/, .env.example) plus an optional config/profiles.json catalog.
Remotes are recorded in ~/.config/ccm/remotes.json.`,
	Example: `  # Register the team repository
  ccm remote add team git@github.com:acme/claude-config.git

  # Apply its backend profile to the current project
  ccm remote pull team --profile backend

  # Publish the current configuration
  ccm remote push team -m "Add github server"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Package cli provides terminal output shared by the ccm commands.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/ccm/internal/merge"
)

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	headingColor = color.New(color.FgBlue, color.Bold)
)

// Success prints a green "✓ message" line.
func Success(w io.Writer, format string, args ...any) {
	successColor.Fprintln(w, "✓ "+fmt.Sprintf(format, args...))
}

// Failure prints a red "✗ message" line.
func Failure(w io.Writer, format string, args ...any) {
	failureColor.Fprintln(w, "✗ "+fmt.Sprintf(format, args...))
}

// Warn prints a yellow line.
func Warn(w io.Writer, format string, args ...any) {
	warnColor.Fprintln(w, fmt.Sprintf(format, args...))
}

// Heading prints a bold blue line.
func Heading(w io.Writer, format string, args ...any) {
	headingColor.Fprintln(w, fmt.Sprintf(format, args...))
}

// Bullets prints each item as an indented bullet.
func Bullets(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
}

// PrintResult summarizes what a merge, import or create changed.
func PrintResult(w io.Writer, res *merge.Result) {
	if res == nil {
		return
	}
	if res.Backup != nil {
		fmt.Fprintf(w, "  Backup: %s\n", res.Backup.Path)
	}
	fmt.Fprintf(w, "  MCP servers (%d): %s\n", len(res.Servers), joinOrNone(res.Servers))
	fmt.Fprintf(w, "  Skills (%d): %s\n", len(res.SkillsCopied), joinOrNone(res.SkillsCopied))

	created := make([]string, 0, 3)
	if res.HooksCreated {
		created = append(created, "hooks")
	}
	if res.OutputStylesCreated {
		created = append(created, "output styles")
	}
	if res.EnvTemplateCreated {
		created = append(created, ".env.example")
	}
	if len(created) > 0 {
		fmt.Fprintf(w, "  Created: %s\n", strings.Join(created, ", "))
	}
	if res.EnvTemplateUpdated {
		fmt.Fprintln(w, "  Updated: .env.example")
	}

	if len(res.SkillsMissing) > 0 {
		Warn(w, "  Skills not found in source: %s", strings.Join(res.SkillsMissing, ", "))
	}
	if len(res.MissingDependencies) > 0 {
		Warn(w, "  Missing MCP server dependencies:")
		for _, gap := range res.MissingDependencies {
			Warn(w, "    - %s", gap)
		}
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

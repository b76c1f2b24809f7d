// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/profile"
)

// Sentinel errors for interactive prompts.
var (
	ErrNoProfiles         = errors.New("no profiles to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Prompter reads answers from a reader and writes questions to a writer.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewPrompter creates a Prompter using stdin and stdout.
func NewPrompter() *Prompter {
	return NewPrompterWithIO(os.Stdin, os.Stdout)
}

// NewPrompterWithIO creates a Prompter with custom reader and writer for testing.
func NewPrompterWithIO(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Confirm asks a yes/no question. An empty answer is "no".
// EOF returns ErrSelectionCancelled.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.writer, "%s [y/N]: ", question)

	input, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// SelectProfile prompts the user to choose one of the catalog's profiles
// from a numbered list and returns its key.
//
// Returns:
//   - ErrNoProfiles if the catalog is empty
//   - The only profile without prompting if there is one
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (p *Prompter) SelectProfile(c *profile.Catalog) (string, error) {
	names := c.Names()
	if len(names) == 0 {
		return "", ErrNoProfiles
	}
	if len(names) == 1 {
		return names[0], nil
	}

	fmt.Fprintln(p.writer, "Available profiles:")
	for i, name := range names {
		s, _ := c.Summary(name)
		fmt.Fprintf(p.writer, "  [%d] %s - %s\n", i+1, name, s.Description)
	}
	fmt.Fprintf(p.writer, "Select [1]: ")

	input, err := p.readLine()
	if err != nil {
		return "", err
	}
	if input == "" {
		return names[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(names) {
		return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(names))
	}
	return names[selection-1], nil
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input == "" {
			return "", ErrSelectionCancelled
		}
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading input")
		}
	}
	return strings.TrimSpace(input), nil
}

// FuzzySelectProfile opens a full-screen fuzzy finder over the catalog's
// profiles with a summary preview. It requires a terminal.
func FuzzySelectProfile(c *profile.Catalog) (string, error) {
	names := c.Names()
	if len(names) == 0 {
		return "", ErrNoProfiles
	}

	idx, err := fuzzyfinder.Find(
		names,
		func(i int) string {
			s, _ := c.Summary(names[i])
			return fmt.Sprintf("%s: %s", names[i], s.Description)
		},
		fuzzyfinder.WithPromptString("profile> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return Preview(c, names[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "interactive selection failed")
	}
	return names[idx], nil
}

// Preview renders the summary of one profile for the finder's preview pane.
func Preview(c *profile.Catalog, name string) string {
	s, ok := c.Summary(name)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", s.Name, s.Description)
	fmt.Fprintf(&b, "MCP servers (%d):\n", s.MCPCount)
	for _, server := range s.MCPServers {
		fmt.Fprintf(&b, "  %s\n", server)
	}
	fmt.Fprintf(&b, "\nSkills (%d):\n", s.SkillCount)
	for _, skill := range s.Skills {
		fmt.Fprintf(&b, "  %s\n", skill)
	}
	if len(s.EnvVars) > 0 {
		fmt.Fprintf(&b, "\nEnvironment:\n")
		for _, v := range s.EnvVars {
			fmt.Fprintf(&b, "  %s\n", v)
		}
	}
	return b.String()
}

package frontmatter

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/ccm/internal/errors"
)

// ErrUnterminated is returned when the opening delimiter has no closing one.
var ErrUnterminated = errors.New("missing closing frontmatter delimiter")

// Skill is the header of a SKILL.md file.
type Skill struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ParseHeader decodes the frontmatter of r into matter and stops reading at
// the closing delimiter. A file without frontmatter leaves matter unchanged
// and returns nil.
func ParseHeader(r io.Reader, matter any) error {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return scanner.Err()
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return nil
	}

	var buf bytes.Buffer
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "---" {
			if err := yaml.Unmarshal(buf.Bytes(), matter); err != nil {
				return errors.Wrap(err, "parsing frontmatter")
			}
			return nil
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading frontmatter")
	}
	return ErrUnterminated
}

// ReadSkill reads the header of the SKILL.md at path.
func ReadSkill(path string) (Skill, error) {
	var s Skill
	f, err := os.Open(path)
	if err != nil {
		return s, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	if err := ParseHeader(f, &s); err != nil {
		return s, errors.Wrap(err, path)
	}
	return s, nil
}

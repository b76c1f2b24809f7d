// Package envfile reads and writes .env.example templates.
//
// A template is a set of KEY=value lines. Blank lines, lines starting with
// '#' and lines without '=' are ignored on read. Values are kept verbatim,
// including ${NAME} references, which are never expanded.
package envfile

import (
	"bufio"
	"bytes"
	"io"
	"io/fs"
	"maps"
	"slices"
	"strings"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

// Header is the comment written at the top of every generated template.
const Header = "# Claude Code Configuration Environment Variables"

// Template maps variable names to suggested values.
type Template map[string]string

// Parse reads KEY=value lines from r. Keys and values are trimmed of
// surrounding whitespace; only the first '=' separates key from value.
// A later line for the same key replaces an earlier one.
func Parse(r io.Reader) (Template, error) {
	t := Template{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		t[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning env template")
	}
	return t, nil
}

// ParseFile reads a template from path. A missing file yields an empty
// template and exists=false.
func ParseFile(path string) (t Template, exists bool, err error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Template{}, false, nil
		}
		return nil, false, err
	}
	t, err = Parse(bytes.NewReader(data))
	if err != nil {
		return nil, true, errors.Wrapf(err, "parsing %s", path)
	}
	return t, true, nil
}

// Keys returns the template's keys in sorted order.
func (t Template) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Bytes renders the template: the header, a blank line, then one
// KEY=value line per key sorted by key.
func (t Template) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteString("\n\n")
	for _, k := range t.Keys() {
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(t[k])
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteFile renders t to path atomically.
func (t Template) WriteFile(path string) error {
	if err := fileutil.AtomicWriteFile(path, t.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// Merge returns the union of base and newer. Values from newer win on key
// collision. Neither input is modified.
func Merge(base, newer Template) Template {
	out := make(Template, len(base)+len(newer))
	maps.Copy(out, base)
	maps.Copy(out, newer)
	return out
}

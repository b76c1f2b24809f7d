// Package scaffold writes the files a freshly created project gets besides
// its configuration: the CLAUDE-CONFIG.md guide and a .gitignore.
package scaffold

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"text/template"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/profile"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

const (
	// ReadmeFile is the guide written into created projects.
	ReadmeFile = "CLAUDE-CONFIG.md"

	// GitignoreFile is written next to a freshly initialized repository.
	GitignoreFile = ".gitignore"
)

// Gitignore is the content of a generated .gitignore.
const Gitignore = ".env\n.backup-*\n__pycache__/\n*.pyc\nnode_modules/\n"

//go:embed readme.md.tmpl
var readmeSource string

var readmeTmpl = template.Must(template.New("readme").Parse(readmeSource))

type readmeData struct {
	Profile string
	Servers []string
	Skills  []string
	EnvVars []string
}

// RenderReadme renders the project guide for the profile stored under key.
func RenderReadme(key string, p *profile.Profile) ([]byte, error) {
	if p == nil {
		return nil, errors.Newf("rendering readme: nil profile %q", key)
	}
	var buf bytes.Buffer
	err := readmeTmpl.Execute(&buf, readmeData{
		Profile: key,
		Servers: p.MCPServers,
		Skills:  p.Skills,
		EnvVars: p.RequiredEnvVars,
	})
	if err != nil {
		return nil, errors.Wrap(err, "rendering readme")
	}
	return buf.Bytes(), nil
}

// WriteReadme renders the guide into dir/CLAUDE-CONFIG.md, replacing any
// previous copy.
func WriteReadme(dir, key string, p *profile.Profile) (string, error) {
	data, err := RenderReadme(key, p)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ReadmeFile)
	if err := fileutil.AtomicWriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", ReadmeFile)
	}
	return path, nil
}

// WriteGitignore writes dir/.gitignore unless one already exists. It
// reports whether a file was written.
func WriteGitignore(dir string) (bool, error) {
	path := filepath.Join(dir, GitignoreFile)
	if fileutil.Exists(path) {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(Gitignore), 0o644); err != nil {
		return false, errors.Wrapf(err, "writing %s", GitignoreFile)
	}
	return true, nil
}

package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/thoreinstein/ccm/internal/envfile"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/mcp"
	"github.com/thoreinstein/ccm/internal/mcp/parser"
	"github.com/thoreinstein/ccm/pkg/fileutil"
	"github.com/thoreinstein/ccm/pkg/frontmatter"
)

// Project-relative names of the configuration artifacts.
const (
	RegistryFile    = ".mcp.json"
	EnvTemplateFile = ".env.example"
	ClaudeDir       = ".claude"
	SkillsDir       = "skills"
	HooksDir        = "hooks"
	OutputStylesDir = "output-styles"

	// SkillFile is the manifest inside each skill directory.
	SkillFile = "SKILL.md"
)

// Store reads and writes one project's configuration tree.
type Store struct {
	root   string
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for backup and restore events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for default backup labels.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns a Store rooted at root. The directory need not exist.
func New(root string, opts ...Option) *Store {
	s := &Store{
		root: root,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	return s
}

// Root returns the project directory.
func (s *Store) Root() string { return s.root }

// RegistryPath returns the path of .mcp.json.
func (s *Store) RegistryPath() string { return filepath.Join(s.root, RegistryFile) }

// EnvTemplatePath returns the path of .env.example.
func (s *Store) EnvTemplatePath() string { return filepath.Join(s.root, EnvTemplateFile) }

// ClaudePath returns the path of the .claude directory.
func (s *Store) ClaudePath() string { return filepath.Join(s.root, ClaudeDir) }

// SkillsPath returns the path of the skills collection.
func (s *Store) SkillsPath() string { return filepath.Join(s.root, ClaudeDir, SkillsDir) }

// HooksPath returns the path of the hooks collection.
func (s *Store) HooksPath() string { return filepath.Join(s.root, ClaudeDir, HooksDir) }

// OutputStylesPath returns the path of the output-styles collection.
func (s *Store) OutputStylesPath() string {
	return filepath.Join(s.root, ClaudeDir, OutputStylesDir)
}

// SkillPath returns the directory of the named skill.
func (s *Store) SkillPath(name string) string { return filepath.Join(s.SkillsPath(), name) }

// HasConfig reports whether the registry file or the .claude directory exists.
func (s *Store) HasConfig() bool {
	return fileutil.Exists(s.RegistryPath()) || fileutil.Exists(s.ClaudePath())
}

// HasRegistry reports whether .mcp.json exists.
func (s *Store) HasRegistry() bool { return fileutil.Exists(s.RegistryPath()) }

// HasEnvTemplate reports whether .env.example exists.
func (s *Store) HasEnvTemplate() bool { return fileutil.Exists(s.EnvTemplatePath()) }

// HasSkillsDir reports whether the skills collection directory exists.
func (s *Store) HasSkillsDir() bool { return fileutil.Exists(s.SkillsPath()) }

// HasHooksDir reports whether the hooks collection directory exists.
func (s *Store) HasHooksDir() bool { return fileutil.Exists(s.HooksPath()) }


// ReadRegistry loads .mcp.json. A missing file yields an empty registry.
// Invalid content is reported as errors.ErrMalformedConfig.
func (s *Store) ReadRegistry() (*mcp.Registry, error) {
	return parser.ParseFile(s.RegistryPath())
}

// WriteRegistry replaces .mcp.json atomically.
func (s *Store) WriteRegistry(reg *mcp.Registry) error {
	return parser.WriteFile(s.RegistryPath(), reg)
}

// ReadEnvTemplate parses .env.example. A missing file yields an empty template.
func (s *Store) ReadEnvTemplate() (envfile.Template, error) {
	t, _, err := envfile.ParseFile(s.EnvTemplatePath())
	return t, err
}

// WriteEnvTemplate replaces .env.example atomically.
func (s *Store) WriteEnvTemplate(t envfile.Template) error {
	return t.WriteFile(s.EnvTemplatePath())
}

// ListSkills returns the names of skill directories, sorted. Entries whose
// names start with '.' are skipped.
func (s *Store) ListSkills() ([]string, error) {
	return listDir(s.SkillsPath(), func(name string, info os.FileInfo) bool {
		return info.IsDir() && !strings.HasPrefix(name, ".")
	})
}

// SkillDescription returns the description from the named skill's SKILL.md
// header, or "" when the file is missing or has no header.
func (s *Store) SkillDescription(name string) (string, error) {
	path := filepath.Join(s.SkillPath(name), SkillFile)
	if !fileutil.Exists(path) {
		return "", nil
	}
	h, err := frontmatter.ReadSkill(path)
	if err != nil {
		return "", errors.Mark(err, errors.ErrMalformedConfig)
	}
	return strings.TrimSpace(h.Description), nil
}

// ListHooks returns the names of regular files in the hooks collection, sorted.
func (s *Store) ListHooks() ([]string, error) {
	return listDir(s.HooksPath(), isRegular)
}

// ListOutputStyles returns the names of regular files in the output-styles
// collection, sorted.
func (s *Store) ListOutputStyles() ([]string, error) {
	return listDir(s.OutputStylesPath(), isRegular)
}

func isRegular(_ string, info os.FileInfo) bool {
	return info.Mode().IsRegular()
}

// listDir returns the sorted names of dir's children accepted by keep.
// Symlinks are resolved before keep is called. A missing directory yields an
// empty slice.
func listDir(dir string, keep func(string, os.FileInfo) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil {
			// Dangling symlink.
			continue
		}
		if keep(e.Name(), info) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Package remote keeps a registry of git repositories that hold shared
// project configuration, and moves configuration to and from them.
package remote

import (
	"encoding/json"
	"log/slog"
	"os"
	"regexp"
	"slices"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/git"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

// DefaultBranch is used when a remote is added without a branch.
const DefaultBranch = "main"

// Sentinel errors for remote operations.
var (
	ErrNameCollision = errors.New("remote with this name already exists")
	ErrInvalidName   = errors.New("invalid remote name")
)

// namePattern validates remote names.
// Names must be lowercase alphanumeric with hyphens, starting with a letter.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Remote is one registered repository.
type Remote struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Branch string `json:"branch"`
}

type registryFile struct {
	Remotes []Remote `json:"remotes"`
}

// Registry manages the remotes file.
type Registry struct {
	path    string
	tempDir string
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithTempDir sets the parent directory for working clones. The default
// is the system temporary directory.
func WithTempDir(dir string) Option {
	return func(r *Registry) {
		r.tempDir = dir
	}
}

// NewRegistry returns a Registry persisted at path.
func NewRegistry(path string, opts ...Option) *Registry {
	r := &Registry{path: path}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrDiscard(r.logger)
	return r
}

// Path returns the remotes file location.
func (r *Registry) Path() string { return r.path }

// List returns the registered remotes in insertion order. A missing file
// yields an empty slice.
func (r *Registry) List() ([]Remote, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}
	return f.Remotes, nil
}

// Get returns the named remote or errors.ErrNotFound.
func (r *Registry) Get(name string) (*Remote, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(f.Remotes, func(rm Remote) bool { return rm.Name == name })
	if i < 0 {
		return nil, errors.WithDetailf(errors.Wrapf(errors.ErrNotFound, "remote %q", name),
			"run: ccm remote list")
	}
	rm := f.Remotes[i]
	return &rm, nil
}

// Add registers a remote. An empty branch means DefaultBranch.
func (r *Registry) Add(name, url, branch string) (*Remote, error) {
	if !namePattern.MatchString(name) {
		return nil, errors.WithDetailf(ErrInvalidName,
			"name %q must be lowercase alphanumeric with hyphens, starting with a letter", name)
	}
	if err := git.ValidateURL(url); err != nil {
		return nil, err
	}
	if branch == "" {
		branch = DefaultBranch
	}

	f, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, existing := range f.Remotes {
		if existing.Name == name {
			return nil, errors.WithDetailf(ErrNameCollision,
				"name %q is already used by %s", name, existing.URL)
		}
	}

	rm := Remote{Name: name, URL: url, Branch: branch}
	f.Remotes = append(f.Remotes, rm)
	if err := r.save(f); err != nil {
		return nil, err
	}
	r.logger.Info("remote added", "name", name, "url", url, "branch", branch)
	return &rm, nil
}

// Remove unregisters the named remote. An unknown name returns
// errors.ErrNotFound.
func (r *Registry) Remove(name string) error {
	f, err := r.load()
	if err != nil {
		return err
	}
	n := len(f.Remotes)
	f.Remotes = slices.DeleteFunc(f.Remotes, func(rm Remote) bool { return rm.Name == name })
	if len(f.Remotes) == n {
		return errors.Wrapf(errors.ErrNotFound, "remote %q", name)
	}
	if err := r.save(f); err != nil {
		return err
	}
	r.logger.Info("remote removed", "name", name)
	return nil
}

func (r *Registry) load() (*registryFile, error) {
	data, err := fileutil.ReadFileWithLimit(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &registryFile{Remotes: []Remote{}}, nil
		}
		return nil, errors.Wrap(err, "loading remotes")
	}
	var f registryFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parsing %s", r.path), errors.ErrMalformedConfig)
	}
	if f.Remotes == nil {
		f.Remotes = []Remote{}
	}
	for i := range f.Remotes {
		if f.Remotes[i].Branch == "" {
			f.Remotes[i].Branch = DefaultBranch
		}
	}
	return &f, nil
}

func (r *Registry) save(f *registryFile) error {
	if err := fileutil.AtomicWriteJSON(r.path, f); err != nil {
		return errors.Wrap(err, "saving remotes")
	}
	return nil
}

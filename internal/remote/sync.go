package remote

import (
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/git"
	"github.com/thoreinstein/ccm/internal/paths"
	"github.com/thoreinstein/ccm/internal/profile"
	"github.com/thoreinstein/ccm/internal/store"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

// DefaultCommitMessage is used by Push when no message is given.
const DefaultCommitMessage = "Update Claude Code configuration"

// CatalogPath is where a configuration repository keeps its profile
// catalog, relative to the repository root.
var CatalogPath = filepath.Join("config", "profiles.json")

// Checkout is a temporary clone of a remote.
type Checkout struct {
	Remote Remote
	Dir    string

	parent string
}

// Store returns a store rooted at the clone.
func (c *Checkout) Store(opts ...store.Option) *store.Store {
	return store.New(c.Dir, opts...)
}

// CatalogPath returns the clone's profile catalog path. The file may not
// exist.
func (c *Checkout) CatalogPath() string {
	return filepath.Join(c.Dir, CatalogPath)
}

// Cleanup removes the clone.
func (c *Checkout) Cleanup() error {
	return os.RemoveAll(c.parent)
}

// Pull makes a shallow clone of the named remote's branch in a new
// temporary directory. The caller owns the checkout and must call Cleanup.
func (r *Registry) Pull(ctx context.Context, name string) (*Checkout, error) {
	rm, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	parent, dir, err := r.clone(ctx, rm, 1)
	if err != nil {
		return nil, err
	}
	r.logger.Info("remote pulled", "name", name, "dir", dir)
	return &Checkout{Remote: *rm, Dir: dir, parent: parent}, nil
}

// ListProfiles returns the profile names declared by the remote's catalog,
// in declaration order. A repository without a catalog yields an empty
// slice.
func (r *Registry) ListProfiles(ctx context.Context, name string) ([]string, error) {
	co, err := r.Pull(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = co.Cleanup() }()

	if !fileutil.Exists(co.CatalogPath()) {
		return []string{}, nil
	}
	c, err := profile.LoadFile(co.CatalogPath())
	if err != nil {
		return nil, errors.Wrapf(err, "remote %q catalog", name)
	}
	return c.Names(), nil
}

// Push publishes source's configuration to the named remote: the registry,
// the .claude tree, the environment template and config/profiles.json are
// copied into a fresh clone, which is committed and pushed when anything
// changed. It reports whether a commit was pushed.
func (r *Registry) Push(ctx context.Context, source *store.Store, name, message string) (bool, error) {
	rm, err := r.Get(name)
	if err != nil {
		return false, err
	}
	if message == "" {
		message = DefaultCommitMessage
	}

	parent, dir, err := r.clone(ctx, rm, 0)
	if err != nil {
		return false, err
	}
	defer func() { _ = os.RemoveAll(parent) }()

	if err := git.ValidateRemote(dir); err != nil {
		return false, err
	}
	if err := copyConfig(source, dir); err != nil {
		return false, errors.Wrap(err, "copying configuration")
	}

	if err := git.AddAll(ctx, dir); err != nil {
		return false, err
	}
	dirty, err := git.IsDirty(ctx, dir)
	if err != nil {
		return false, err
	}
	if !dirty {
		r.logger.Info("remote already up to date", "name", name)
		return false, nil
	}
	if err := git.Commit(ctx, dir, message); err != nil {
		return false, err
	}
	if err := git.Push(ctx, dir); err != nil {
		return false, err
	}
	r.logger.Info("remote pushed", "name", name, "branch", rm.Branch)
	return true, nil
}

// clone clones rm beneath a new temporary directory and returns both. A
// depth of zero makes a full clone.
func (r *Registry) clone(ctx context.Context, rm *Remote, depth int) (parent, dir string, err error) {
	if r.tempDir != "" {
		if err := paths.EnsureDir(r.tempDir, 0); err != nil {
			return "", "", errors.Wrap(err, "creating clone directory")
		}
	}
	parent, err = os.MkdirTemp(r.tempDir, "ccm-remote-")
	if err != nil {
		return "", "", errors.Wrap(err, "creating clone directory")
	}
	dir = filepath.Join(parent, rm.Name)
	if err := git.Clone(ctx, rm.URL, dir, rm.Branch, depth); err != nil {
		_ = os.RemoveAll(parent)
		return "", "", errors.Wrapf(err, "remote %q", rm.Name)
	}
	return parent, dir, nil
}

func copyConfig(source *store.Store, dest string) error {
	dst := store.New(dest)

	if source.HasRegistry() {
		if err := fileutil.CopyFile(source.RegistryPath(), dst.RegistryPath()); err != nil {
			return err
		}
	}
	if fileutil.IsDir(source.ClaudePath()) {
		if err := fileutil.ReplaceDir(source.ClaudePath(), dst.ClaudePath()); err != nil {
			return err
		}
	}
	if source.HasEnvTemplate() {
		if err := fileutil.CopyFile(source.EnvTemplatePath(), dst.EnvTemplatePath()); err != nil {
			return err
		}
	}
	if catalog := filepath.Join(source.Root(), CatalogPath); fileutil.Exists(catalog) {
		if err := fileutil.CopyFile(catalog, filepath.Join(dest, CatalogPath)); err != nil {
			return err
		}
	}
	return nil
}

package merge

import (
	"context"
	"os"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/git"
	"github.com/thoreinstein/ccm/internal/profile"
	"github.com/thoreinstein/ccm/internal/scaffold"
	"github.com/thoreinstein/ccm/internal/store"
)

// CreateOptions configures CreateProject.
type CreateOptions struct {
	// InitGit runs git init in the new project and writes a .gitignore
	// when none exists.
	InitGit bool
}

// CreateResult describes a created project.
type CreateResult struct {
	*Result

	Profile          string
	ReadmePath       string
	GitInitialized   bool
	GitignoreWritten bool
}

// CreateProject materializes profileName from catalog into targetPath using
// source as the configuration template. The directory is created if needed
// and the selection is applied with StrategyOverwrite, followed by the
// CLAUDE-CONFIG.md guide and, optionally, a git repository.
//
// An unknown profile returns errors.ErrNotFound before anything is created.
func (e *Engine) CreateProject(ctx context.Context, targetPath string, source *store.Store, catalog *profile.Catalog, profileName string, opts CreateOptions) (*CreateResult, error) {
	if catalog == nil {
		catalog = profile.Empty()
	}
	p, ok := catalog.Get(profileName)
	if !ok {
		return nil, errors.WithDetailf(
			errors.Wrapf(errors.ErrNotFound, "profile %q", profileName),
			"available profiles: %v", catalog.Names())
	}

	if err := os.MkdirAll(targetPath, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", targetPath)
	}
	target := store.New(targetPath, store.WithLogger(e.logger), store.WithClock(e.now))

	res, err := e.Merge(target, source, ProfileOptions(p, catalog, StrategyOverwrite))
	if err != nil {
		return nil, err
	}
	out := &CreateResult{Result: res, Profile: profileName}

	if out.ReadmePath, err = scaffold.WriteReadme(targetPath, profileName, p); err != nil {
		return out, err
	}

	if opts.InitGit {
		if err := git.Init(ctx, targetPath); err != nil {
			return out, errors.Wrap(err, "initializing git repository")
		}
		out.GitInitialized = true
		if out.GitignoreWritten, err = scaffold.WriteGitignore(targetPath); err != nil {
			return out, err
		}
	}

	e.logger.Info("project created", "path", targetPath, "profile", profileName)
	return out, nil
}

// ProfileOptions builds the merge selection for profile p. The catalog's
// dependency table is attached when catalog is non-nil.
func ProfileOptions(p *profile.Profile, catalog *profile.Catalog, strategy Strategy) Options {
	opts := Options{
		Strategy: strategy,
		Servers:  selection(p.MCPServers),
		Skills:   selection(p.Skills),
	}
	if catalog != nil {
		opts.Dependencies = catalog.Dependencies()
	}
	return opts
}

// selection turns a profile list into a filter. A profile that lists
// nothing selects nothing.
func selection(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

package merge

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/mcp"
	"github.com/thoreinstein/ccm/internal/resolver"
	"github.com/thoreinstein/ccm/internal/store"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

// Strategy selects how the source registry is combined with the target's.
type Strategy string

const (
	// StrategyOverwrite replaces the target registry with the source's.
	StrategyOverwrite Strategy = "overwrite"

	// StrategyMerge keeps target-only servers; the source wins on collisions.
	StrategyMerge Strategy = "merge"
)

// ParseStrategy maps a user-supplied name onto a Strategy. The empty string
// selects StrategyOverwrite.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyOverwrite:
		return StrategyOverwrite, nil
	case StrategyMerge:
		return StrategyMerge, nil
	default:
		return "", errors.WithDetailf(
			errors.Wrapf(errors.ErrInvalidConfig, "unknown merge strategy %q", s),
			"valid strategies: %s, %s", StrategyOverwrite, StrategyMerge)
	}
}

// Options selects what Merge copies.
type Options struct {
	Strategy Strategy

	// Servers restricts the registry to these names. Nil selects every
	// source server; an empty non-nil slice selects none.
	Servers []string

	// Skills restricts the copied skills. Nil selects every source skill.
	Skills []string

	// Dependencies is the skill to server table used to report
	// MissingDependencies. It is optional.
	Dependencies map[string][]string

	// BackupLabel names the backup. Empty uses a timestamp.
	BackupLabel string
}

// Result describes what an operation changed.
type Result struct {
	Backup *store.BackupHandle

	// Servers lists the server names in the target registry after the merge.
	Servers []string

	SkillsCopied []string

	// SkillsMissing lists selected skills the source does not have.
	SkillsMissing []string

	HooksCreated        bool
	OutputStylesCreated bool
	EnvTemplateCreated  bool

	// EnvTemplateUpdated is set by Import when bundle variables were merged
	// into .env.example.
	EnvTemplateUpdated bool

	// MissingDependencies is advisory and never causes a failure.
	MissingDependencies []resolver.Gap
}

// DependencyErr returns the missing dependencies as one error marked
// errors.ErrDependencyMissing, or nil when every copied skill has its
// servers.
func (r *Result) DependencyErr() error {
	if len(r.MissingDependencies) == 0 {
		return nil
	}
	gaps := make([]string, len(r.MissingDependencies))
	for i, gap := range r.MissingDependencies {
		gaps[i] = gap.String()
	}
	return errors.Mark(
		errors.Newf("%d skill dependencies missing: %s", len(gaps), strings.Join(gaps, ", ")),
		errors.ErrDependencyMissing)
}

// Engine runs merge, import, export and project creation.
type Engine struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for bundle metadata and new
// stores.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New returns an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NewDiscard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Merge copies the selection described by opts from source into target.
//
// Inputs are read and checked first, so a malformed source registry or an
// unknown strategy fails without a backup and without writes. The target is
// then backed up; a backup failure returns errors.ErrBackupFailed and
// leaves the target untouched. Failures after that point return a
// *PartialMergeError.
func (e *Engine) Merge(target, source *store.Store, opts Options) (*Result, error) {
	strategy, err := ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	if err := checkSkillNames(opts.Skills); err != nil {
		return nil, err
	}

	srcReg, err := source.ReadRegistry()
	if err != nil {
		return nil, errors.Wrap(err, "reading source registry")
	}
	reg, err := combine(target, srcReg.Filter(opts.Servers), strategy)
	if err != nil {
		return nil, err
	}

	skills := opts.Skills
	if skills == nil {
		if skills, err = source.ListSkills(); err != nil {
			return nil, errors.Wrap(err, "listing source skills")
		}
	}

	backup, err := target.Backup(opts.BackupLabel)
	if err != nil {
		return nil, err
	}
	res := &Result{Backup: backup, Servers: reg.Names()}

	e.logger.Debug("writing registry", "target", target.Root(), "strategy", string(strategy), "servers", len(res.Servers))
	if err := target.WriteRegistry(reg); err != nil {
		return res, partial(backup, StepRegistry, err)
	}

	if err := e.copySkills(target, source, skills, res); err != nil {
		return res, partial(backup, StepSkills, err)
	}

	if res.HooksCreated, err = copyDirIfAbsent(source.HooksPath(), target.HooksPath()); err != nil {
		return res, partial(backup, StepHooks, err)
	}
	if res.OutputStylesCreated, err = copyDirIfAbsent(source.OutputStylesPath(), target.OutputStylesPath()); err != nil {
		return res, partial(backup, StepOutputStyles, err)
	}
	if source.HasEnvTemplate() && !target.HasEnvTemplate() {
		if err := fileutil.CopyFile(source.EnvTemplatePath(), target.EnvTemplatePath()); err != nil {
			return res, partial(backup, StepEnvTemplate, err)
		}
		res.EnvTemplateCreated = true
	}

	if opts.Dependencies != nil {
		res.MissingDependencies = resolver.New(opts.Dependencies).Gaps(res.Servers, res.SkillsCopied)
		if err := res.DependencyErr(); err != nil {
			e.logger.Warn("skill dependencies missing", "error", err)
		}
	}

	e.logger.Info("merge complete",
		"target", target.Root(),
		"servers", len(res.Servers),
		"skills", len(res.SkillsCopied),
	)
	return res, nil
}

// combine applies strategy to the incoming registry. The target registry is
// only consulted under StrategyMerge when its file exists.
func combine(target *store.Store, incoming *mcp.Registry, strategy Strategy) (*mcp.Registry, error) {
	switch strategy {
	case StrategyMerge:
		if !target.HasRegistry() {
			return incoming, nil
		}
		current, err := target.ReadRegistry()
		if err != nil {
			return nil, errors.Wrap(err, "reading target registry")
		}
		return mcp.Union(current, incoming), nil
	default:
		return incoming, nil
	}
}

func (e *Engine) copySkills(target, source *store.Store, skills []string, res *Result) error {
	if err := os.MkdirAll(target.SkillsPath(), 0o755); err != nil {
		return errors.Wrap(err, "creating skills directory")
	}
	for _, name := range skills {
		src := source.SkillPath(name)
		if !fileutil.IsDir(src) {
			e.logger.Warn("skill not found in source", "skill", name, "source", source.Root())
			res.SkillsMissing = append(res.SkillsMissing, name)
			continue
		}
		if err := fileutil.ReplaceDir(src, target.SkillPath(name)); err != nil {
			return errors.Wrapf(err, "copying skill %q", name)
		}
		res.SkillsCopied = append(res.SkillsCopied, name)
	}
	return nil
}

// copyDirIfAbsent copies src to dst when src exists and dst does not.
func copyDirIfAbsent(src, dst string) (bool, error) {
	if !fileutil.IsDir(src) || fileutil.Exists(dst) {
		return false, nil
	}
	if err := fileutil.CopyDir(src, dst); err != nil {
		return false, errors.Wrapf(err, "copying %s", filepath.Base(src))
	}
	return true, nil
}

// checkSkillNames rejects names that would escape the skills directory.
func checkSkillNames(names []string) error {
	for _, name := range names {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return errors.Wrapf(errors.ErrInvalidConfig, "invalid skill name %q", name)
		}
	}
	return nil
}

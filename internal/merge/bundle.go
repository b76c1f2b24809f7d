package merge

import (
	"slices"

	"github.com/thoreinstein/ccm/internal/bundle"
	"github.com/thoreinstein/ccm/internal/envfile"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/store"
)

// ExportOptions selects what Export records.
type ExportOptions struct {
	// Profile is recorded in the metadata when set.
	Profile string

	// Servers restricts the registry. Nil exports every server.
	Servers []string

	// Skills restricts the skill manifest to these names, in this order.
	// Names the source lacks are dropped. Nil lists every skill.
	Skills []string
}

// Export captures src as a bundle. Skills, hooks and output styles are
// recorded by name only.
func (e *Engine) Export(src *store.Store, opts ExportOptions) (*bundle.Bundle, error) {
	reg, err := src.ReadRegistry()
	if err != nil {
		return nil, errors.Wrap(err, "reading registry")
	}

	all, err := src.ListSkills()
	if err != nil {
		return nil, err
	}
	skills := all
	if opts.Skills != nil {
		skills = make([]string, 0, len(opts.Skills))
		for _, name := range opts.Skills {
			if slices.Contains(all, name) {
				skills = append(skills, name)
			}
		}
	}

	env, err := src.ReadEnvTemplate()
	if err != nil {
		return nil, err
	}
	hooks, err := src.ListHooks()
	if err != nil {
		return nil, err
	}
	styles, err := src.ListOutputStyles()
	if err != nil {
		return nil, err
	}

	b := &bundle.Bundle{
		Metadata:     bundle.NewMetadata(e.now(), opts.Profile, src.Root()),
		Skills:       skills,
		EnvTemplate:  map[string]string(env),
		Hooks:        hooks,
		OutputStyles: styles,
	}
	if b.EnvTemplate == nil {
		b.EnvTemplate = map[string]string{}
	}
	reg = reg.Filter(opts.Servers)
	if err := b.SetRegistry(reg); err != nil {
		return nil, err
	}

	e.logger.Info("configuration exported", "source", src.Root(), "servers", reg.Len(), "skills", len(skills))
	return b, nil
}

// Import applies a bundle to target. Only the registry and the environment
// template are written; the bundle's skill, hook and output-style lists are
// a manifest and are not materialized.
//
// The bundle is checked before the backup is taken: an unsupported version
// or an invalid registry returns errors.ErrMalformedConfig with no backup
// and no writes.
func (e *Engine) Import(target *store.Store, b *bundle.Bundle, strategy Strategy) (*Result, error) {
	if b == nil {
		return nil, errors.Wrap(errors.ErrMalformedConfig, "no bundle given")
	}
	strategy, err := ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}
	if err := b.CheckVersion(); err != nil {
		return nil, err
	}
	incoming, err := b.Registry()
	if err != nil {
		return nil, err
	}
	reg, err := combine(target, incoming, strategy)
	if err != nil {
		return nil, err
	}

	var env envfile.Template
	if len(b.EnvTemplate) > 0 {
		current, err := target.ReadEnvTemplate()
		if err != nil {
			return nil, err
		}
		env = envfile.Merge(current, b.Env())
	}

	backup, err := target.Backup("")
	if err != nil {
		return nil, err
	}
	res := &Result{Backup: backup, Servers: reg.Names()}

	if err := target.WriteRegistry(reg); err != nil {
		return res, partial(backup, StepRegistry, err)
	}
	if env != nil {
		if err := target.WriteEnvTemplate(env); err != nil {
			return res, partial(backup, StepEnvTemplate, err)
		}
		res.EnvTemplateUpdated = true
	}

	e.logger.Info("bundle imported", "target", target.Root(), "strategy", string(strategy), "servers", len(res.Servers))
	return res, nil
}

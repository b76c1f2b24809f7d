package validator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/mcp"
	"github.com/thoreinstein/ccm/internal/store"
)

// Env is a snapshot of environment variables.
type Env map[string]string

// EnvFromList builds an Env from KEY=value pairs such as os.Environ().
// Later duplicates win.
func EnvFromList(pairs []string) Env {
	env := make(Env, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// Prober checks whether a server's command can be started.
type Prober interface {
	Probe(ctx context.Context, server *mcp.Server) error
}

// Validator runs the configuration checks for one project.
type Validator struct {
	store  *store.Store
	deps   map[string][]string
	env    Env
	prober Prober
	strict bool
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithEnv sets the environment snapshot. The default is empty.
func WithEnv(env Env) Option {
	return func(v *Validator) {
		v.env = env
	}
}

// WithDependencies sets the skill to server table used by the dependency
// check.
func WithDependencies(deps map[string][]string) Option {
	return func(v *Validator) {
		v.deps = deps
	}
}

// WithProber sets the prober used by ProbeServer.
func WithProber(p Prober) Option {
	return func(v *Validator) {
		v.prober = p
	}
}

// WithStrictTypes makes an unrecognized server type fail the MCP
// configuration check instead of producing a warning.
func WithStrictTypes(strict bool) Option {
	return func(v *Validator) {
		v.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// New returns a Validator for s.
func New(s *store.Store, opts ...Option) *Validator {
	v := &Validator{
		store: s,
		env:   Env{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = logging.OrDiscard(v.logger)
	return v
}

// Checks returns the checks in report order.
func (v *Validator) Checks() []Check {
	return []Check{
		&mcpConfigCheck{store: v.store, strictTypes: v.strict},
		&envCheck{store: v.store, env: v.env},
		&skillsCheck{store: v.store},
		&hooksCheck{store: v.store},
		&dependencyCheck{store: v.store, deps: v.deps},
	}
}

// Validate runs every check.
func (v *Validator) Validate() *Report {
	r := NewRunner()
	r.now = v.now
	for _, c := range v.Checks() {
		r.AddCheck(c)
	}
	report := r.Run(v.store.Root())

	for _, res := range report.Results {
		v.logger.Debug("check finished", "category", res.Category, "passed", res.Passed, "message", res.Message)
	}
	return report
}

// ProbeServer reports whether the named server's command starts
// successfully. An unknown server, an unreadable registry or a missing
// prober all report false.
func (v *Validator) ProbeServer(ctx context.Context, name string) bool {
	if v.prober == nil {
		v.logger.Warn("no prober configured", "server", name)
		return false
	}
	reg, err := v.store.ReadRegistry()
	if err != nil {
		v.logger.Warn("cannot read registry", "error", err)
		return false
	}
	server, ok := reg.Servers[name]
	if !ok {
		return false
	}
	if err := v.prober.Probe(ctx, server); err != nil {
		v.logger.Info("probe failed", "server", name, "error", err)
		return false
	}
	return true
}

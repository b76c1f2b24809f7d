// Package probe checks whether a server's command can be started.
package probe

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/mcp"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 5 * time.Second

// probeArgs is how many configured args are passed before --version.
const probeArgs = 2

// ExecProber runs "<command> <first two args> --version" with the server's
// environment layered over the process environment. The probe succeeds when
// the command exits zero within the timeout.
type ExecProber struct {
	timeout time.Duration
	environ func() []string
}

// Option configures an ExecProber.
type Option func(*ExecProber)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(p *ExecProber) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithEnviron sets the base environment. The default is os.Environ.
func WithEnviron(environ func() []string) Option {
	return func(p *ExecProber) {
		if environ != nil {
			p.environ = environ
		}
	}
}

// New returns an ExecProber.
func New(opts ...Option) *ExecProber {
	p := &ExecProber{
		timeout: DefaultTimeout,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Command builds the probe command line for s.
func Command(s *mcp.Server) []string {
	args := []string{s.Command}
	args = append(args, s.Args[:min(len(s.Args), probeArgs)]...)
	return append(args, "--version")
}

// Probe implements validator.Prober.
func (p *ExecProber) Probe(ctx context.Context, s *mcp.Server) error {
	if !s.HasCommand() {
		return errors.Wrap(errors.ErrMalformedConfig, "server has no command")
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	argv := Command(s)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = p.environ()
	for k, v := range s.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "probing %s", s.Command)
		}
		return errors.Wrapf(err, "probing %s", s.Command)
	}
	return nil
}

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// Format selects the encoding of records on the primary output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// LevelTrace is below Debug and is enabled by -vvv or CCM_DEBUG=2.
const LevelTrace = slog.Level(-8)

// DebugEnv raises verbosity when no -v flag is given.
const DebugEnv = "CCM_DEBUG"

// Config describes a logger.
type Config struct {
	Level  slog.Level
	Format Format

	// Output defaults to os.Stderr.
	Output io.Writer

	// File, when set, additionally receives every record as JSON.
	File io.Writer
}

// New builds a logger from cfg. Unrecognized formats use the text handler.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = NewHandler(out, opts)
	}
	if cfg.File != nil {
		h = NewMultiHandler(h, slog.NewJSONHandler(cfg.File, opts))
	}
	return slog.New(h)
}

// LevelFromVerbosity maps a -v count to a log level.
// 0 is Warn so that normal runs only print command output.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// EnvVerbosity returns the verbosity requested through CCM_DEBUG:
// "1" or "true" is debug, "2" is trace. Anything else is 0.
func EnvVerbosity() int {
	switch strings.ToLower(os.Getenv(DebugEnv)) {
	case "1", "true":
		return 2
	case "2":
		return 3
	default:
		return 0
	}
}

// Default returns a Warn-level text logger on stderr.
func Default() *slog.Logger {
	return New(Config{Level: slog.LevelWarn})
}

// NewDiscard returns a logger that drops every record.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// tlog forwards handler output to t.Log, one call per record.
type tlog struct {
	t *testing.T
}

func (w tlog) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a Debug-level logger that writes to the test log.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{Level: slog.LevelDebug, Output: tlog{t: t}})
}

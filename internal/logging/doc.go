// Package logging provides structured logging for the ccm CLI using slog.
//
// Text output goes through [Handler], which colorizes on a TTY and masks
// values whose keys look like secrets (tokens, API keys, passwords). Server
// environment maps are routinely logged during merges, so masking is always
// on. JSON output uses the standard library handler.
//
// Core packages never reach for the default logger. They accept a
// *slog.Logger through a functional option, and the CLI stores the
// configured logger in the command context:
//
//	ctx = logging.NewContext(ctx, logger)
//	logger := logging.FromContext(ctx)
//
// For tests, use [ForTest] to route output through t.Log.
package logging

// Package errors provides error handling conventions for the ccm CLI.
//
// It defines the sentinel errors shared by the configuration store, the
// merge engine and the profile catalog, an ExitError type for CLI exit code
// handling, and thin forwarding helpers over github.com/cockroachdb/errors so
// callers only need a single errors import.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, ccmerrors.ErrBackupFailed) {
//	    // nothing was written to the target project
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (unknown profile, malformed file, etc.)
//   - ExitSystem (2): System-related error (I/O, backup, partial merge)
package errors

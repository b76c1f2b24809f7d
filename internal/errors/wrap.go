package errors

import "github.com/cockroachdb/errors"

// New returns an error with the supplied message and a stack trace.
func New(msg string) error { return errors.New(msg) }

// Newf formats an error message and records a stack trace.
func Newf(format string, args ...any) error { return errors.Newf(format, args...) }

// Wrap annotates err with msg. It returns nil when err is nil.
func Wrap(err error, msg string) error { return errors.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. It returns nil when err is nil.
func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}

// WithDetailf attaches a user-facing detail without changing the message.
func WithDetailf(err error, format string, args ...any) error {
	return errors.WithDetailf(err, format, args...)
}

// Mark tags err so that Is(err, reference) reports true while keeping
// err's own message.
func Mark(err error, reference error) error { return errors.Mark(err, reference) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// Join combines errors into one. Nil errors are discarded.
func Join(errs ...error) error { return errors.Join(errs...) }

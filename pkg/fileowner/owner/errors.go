package owner

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package is an *Error whose
// Kind is one of these, so callers can test with errors.Is.
var (
	// ErrNotFound means a user or group name has no database entry.
	ErrNotFound = errors.New("identity not found")

	// ErrPathNotFound means the path does not exist or a component of it
	// is not a directory.
	ErrPathNotFound = errors.New("path not found")

	// ErrPermissionDenied means the caller lacks the privilege to read the
	// path's metadata or change its ownership.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput means a specifier could not be parsed or names a
	// reserved ID.
	ErrInvalidInput = errors.New("invalid identity")

	// ErrIO is any other operating system failure. The errno is kept as
	// the wrapped cause.
	ErrIO = errors.New("system error")

	// ErrUnsupported is returned on platforms without Unix ownership.
	ErrUnsupported = errors.New("ownership not supported on this platform")
)

// Error records a failed operation.
type Error struct {
	// Op is the operation: "chown", "lchown", "stat", "lstat",
	// "lookup user", "lookup group" or "parse".
	Op string

	// Subject is the path for filesystem operations, or the name or ID
	// text for lookups and parsing.
	Subject string

	// Kind is one of the package's sentinel errors.
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil || e.Err == e.Kind {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Subject, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Subject, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, subject string, kind, cause error) *Error {
	return &Error{Op: op, Subject: subject, Kind: kind, Err: cause}
}

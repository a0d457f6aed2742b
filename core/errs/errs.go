// Package errs defines the stable error kinds the engine exposes across its
// boundary. Callers match on Kind; internal stack traces never cross over.
package errs

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error class.
type Kind string

const (
	Validation  Kind = "validation"
	NotFound    Kind = "not_found"
	Dependency  Kind = "dependency"
	Computation Kind = "computation"
	Conflict    Kind = "conflict"
)

// Error is a kinded error carrying a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a kinded error.
func E(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, or Computation when err carries none.
// A nil error has no kind and returns the empty string.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Computation
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the boundary-safe message for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

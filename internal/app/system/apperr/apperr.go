// Package apperr defines the application's error taxonomy and its mapping
// onto HTTP status codes.
//
// Stores return plain sentinel errors (e.g. communitystore.ErrSlugTaken);
// handlers wrap or classify them into one of these kinds before writing a
// response. Every component-level failure is surfaced directly to the
// caller as a typed error; there is no retry anywhere in this system.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of failure.
type Kind string

const (
	Unauthenticated Kind = "unauthenticated"  // no valid caller identity
	Forbidden       Kind = "forbidden"        // identity present, rights absent
	NotFound        Kind = "not_found"        // target identity does not resolve
	InvalidArgument Kind = "invalid_argument" // malformed input, bad enum, cross-reference mismatch
	Conflict        Kind = "conflict"         // uniqueness violation (slug, membership)
	Internal        Kind = "internal"         // everything else, including DB connectivity
)

// Error is a typed error carrying a taxonomy kind and a caller-facing
// message. The wrapped cause (if any) is for logs, never for responses.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a typed error with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause for logging while keeping the caller-facing message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the taxonomy kind from err, defaulting to Internal for
// untyped errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// MessageOf extracts the caller-facing message from err. Untyped errors
// get a generic message so internals never leak to clients.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "An internal error occurred."
}

// Status maps a taxonomy kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidArgument:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

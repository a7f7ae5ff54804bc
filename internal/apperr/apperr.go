// Package apperr defines the error kinds surfaced by the HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the purpose of choosing a response.
type Kind int

const (
	// KindInternal is the zero-value fallback for anything unclassified.
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthenticated
	KindNotFound
	KindConflict
)

// String returns a stable name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a kind, a client-safe message and an optional cause.
// The cause is never written to a response.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Messages shared across call sites.
const (
	MsgUnauthorized   = "Unauthorized"
	MsgInternal       = "Internal server error"
	MsgInvalidPayload = "Invalid JSON payload."
)

// ErrUnauthenticated is the single 401 value returned by the authorization guard.
var ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: MsgUnauthorized}

// InvalidInput reports a malformed body or a failed field check.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// NotFound reports an absent record, or one the caller does not own.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict reports a uniqueness violation.
func Conflict(msg string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: cause}
}

// Internal wraps an unexpected failure behind the generic message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: cause}
}

// KindOf extracts the kind from err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the message that may be shown to a client.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return MsgInternal
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(k Kind) int {
	switch k {
	case KindInvalidInput, KindConflict:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

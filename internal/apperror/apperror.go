// Package apperror defines the error taxonomy shared by the service layer.
// Handlers translate an error's kind into an HTTP status so raw store errors
// never reach clients.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a service error.
type Kind string

// Error kinds returned by the service layer.
const (
	KindUnauthenticated          Kind = "unauthenticated"
	KindInvalidRequest           Kind = "invalid_request"
	KindDuplicateApplication     Kind = "duplicate_application"
	KindNotAcceptingApplications Kind = "not_accepting_applications"
	KindNotFound                 Kind = "not_found"
	KindForbidden                Kind = "forbidden"
	KindDependencyUnavailable    Kind = "dependency_unavailable"
	KindInternal                 Kind = "internal"
)

// HTTPStatus maps a kind to the status code reported to clients.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindDuplicateApplication, KindNotAcceptingApplications:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindDependencyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a human-readable message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind around a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind carried by err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

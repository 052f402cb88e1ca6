// Package apperr defines the error kinds surfaced to API clients.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindInvalidReference Kind = "InvalidReference"
	KindNotFound         Kind = "NotFound"
	KindUnauthorized     Kind = "Unauthorized"
	KindForbidden        Kind = "Forbidden"
	KindBadRequest       Kind = "BadRequest"
	KindConflict         Kind = "Conflict"
	KindServer           Kind = "ServerError"
)

// HTTPStatus maps a kind to the status code written in the envelope.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidReference, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind and a client-safe message. Err holds the underlying
// cause for logging and is never written to the response.
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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidReference(message string) *Error {
	return New(KindInvalidReference, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized request"
	}
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Server wraps an unexpected failure; the cause stays out of the message.
func Server(message string, err error) *Error {
	if message == "" {
		message = "Something went wrong"
	}
	return Wrap(KindServer, message, err)
}

// As extracts the *Error in err's chain. Anything else becomes a ServerError.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Server("", err)
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return As(err).Kind
}

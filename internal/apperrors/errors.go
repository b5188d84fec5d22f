package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error. Handlers map kinds to HTTP status codes.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindDuplicate        Kind = "duplicate"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
	KindInternal         Kind = "internal"
)

// Error is the error type returned by services.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against the kind sentinels below, so
// errors.Is(err, apperrors.ErrNotFound) works for any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrDuplicate        = &Error{Kind: KindDuplicate}
	ErrCapacityExceeded = &Error{Kind: KindCapacityExceeded}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
	ErrForbidden        = &Error{Kind: KindForbidden}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Duplicate(message string) *Error {
	return New(KindDuplicate, message)
}

func CapacityExceeded(message string) *Error {
	return New(KindCapacityExceeded, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Internal(err error) *Error {
	return Wrap(err, KindInternal, "Internal server error")
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns a client-safe message for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		if appErr.Message != "" {
			return appErr.Message
		}
		return defaultMessages[appErr.Kind]
	}
	return defaultMessages[KindInternal]
}

var defaultMessages = map[Kind]string{
	KindValidation:       "Validation failed",
	KindNotFound:         "Not found",
	KindDuplicate:        "Already exists",
	KindCapacityExceeded: "Capacity exceeded",
	KindUnauthorized:     "Unauthorized",
	KindForbidden:        "Forbidden",
	KindInternal:         "Internal server error",
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindCapacityExceeded:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

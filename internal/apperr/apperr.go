// Package apperr classifies request failures so handlers can answer with a
// transport status that matches the kind of failure.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind onto an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Invalid(detail string) *Error         { return &Error{Kind: KindInvalid, Detail: detail} }
func Unauthenticated(detail string) *Error { return &Error{Kind: KindUnauthenticated, Detail: detail} }
func Forbidden(detail string) *Error       { return &Error{Kind: KindForbidden, Detail: detail} }
func NotFound(detail string) *Error        { return &Error{Kind: KindNotFound, Detail: detail} }
func Conflict(detail string) *Error        { return &Error{Kind: KindConflict, Detail: detail} }

func Internal(detail string, err error) *Error {
	return &Error{Kind: KindInternal, Detail: detail, Err: err}
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

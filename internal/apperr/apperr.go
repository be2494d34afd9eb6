// Package apperr defines the error taxonomy shared by handlers and
// repositories.  Each error carries a kind that maps onto exactly one HTTP
// status, so handlers translate failures at their boundary without
// inspecting driver errors themselves.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindValidation Kind = iota + 1 // missing or malformed input -> 400
	KindAuth                       // bad credentials -> 401
	KindNotFound                   // missing row or lost conditional update -> 404
	KindConflict                   // duplicate email -> 409
	KindInternal                   // unexpected store failure -> 500
)

// Error is an application error with a client-safe message.  The wrapped
// cause, if any, is for server-side logging only and never reaches the
// response body.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // underlying cause, not exposed to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a 400-class error for bad input.
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }

// Auth returns a 401-class error.  Use the same message for unknown email
// and wrong password so the response does not leak which one failed.
func Auth(msg string) *Error { return &Error{Kind: KindAuth, Msg: msg} }

// NotFound returns a 404-class error.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }

// Conflict returns a 409-class error.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Msg: msg} }

// Internal wraps an unexpected failure.  The generic message is what the
// client sees; cause is kept for the server log.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: cause}
}

// Status maps an error to its HTTP status code.  Errors that are not
// *apperr.Error are treated as internal.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to serialize to the client.
// Internal errors and foreign error values collapse to a generic message.
func ClientMessage(err error) string {
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind == KindInternal {
		if ae != nil && ae.Msg != "" {
			return ae.Msg
		}
		return "internal server error"
	}
	return ae.Msg
}

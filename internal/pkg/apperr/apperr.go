// Package apperr defines the error taxonomy shared by every callable operation.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a stable, client-visible error category.
type Code string

const (
	CodeUnauthenticated    Code = "unauthenticated"
	CodePermissionDenied   Code = "permission-denied"
	CodeInvalidArgument    Code = "invalid-argument"
	CodeFailedPrecondition Code = "failed-precondition"
	CodeNotFound           Code = "not-found"
	CodeResourceExhausted  Code = "resource-exhausted"
	CodeInternal           Code = "internal"
)

// Error is a classified error. Domain packages declare sentinels of this type
// in their errors.go and compare them with errors.Is.
type Error struct {
	Code    Code
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithDetails returns a copy of e carrying field-level details.
func (e *Error) WithDetails(details map[string]string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, Err: e}
}

func Unauthenticated(msg string) *Error    { return New(CodeUnauthenticated, msg) }
func PermissionDenied(msg string) *Error   { return New(CodePermissionDenied, msg) }
func InvalidArgument(msg string) *Error    { return New(CodeInvalidArgument, msg) }
func FailedPrecondition(msg string) *Error { return New(CodeFailedPrecondition, msg) }
func NotFound(msg string) *Error           { return New(CodeNotFound, msg) }
func ResourceExhausted(msg string) *Error  { return New(CodeResourceExhausted, msg) }

// Internal wraps an unexpected error. The cause is logged, never shown to clients.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "An unexpected error occurred", Err: err}
}

// CodeOf returns the classification of err. Unclassified errors are internal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err is classified with code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps a code onto the status used by the callable transport.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case CodeNotFound:
		return http.StatusNotFound
	case CodeResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
)

// ErrMalformedBody is returned by DecodeJSON for bodies that are not a single JSON
// object of the expected shape.
var ErrMalformedBody = apperr.InvalidArgument("Malformed request body")

// DecodeJSON decodes a request body into v, rejecting unknown fields and trailing data
func DecodeJSON(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	dec := json.NewDecoder(io.LimitReader(body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ErrMalformedBody.WithDetails(map[string]string{"body": err.Error()})
	}
	if dec.More() {
		return ErrMalformedBody
	}
	return nil
}

// ErrorBody is the failure envelope
type ErrorBody struct {
	OK    bool       `json:"ok"`
	Error *ErrorInfo `json:"error"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// OK sends a 200 response. Callable results carry their own "ok": true field.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Error sends the failure envelope for a classified error. Internal errors never
// leak their cause.
func Error(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	info := &ErrorInfo{Code: string(code), Message: "An unexpected error occurred"}

	var e *apperr.Error
	if code != apperr.CodeInternal && errors.As(err, &e) {
		info.Message = e.Message
		info.Details = e.Details
	}

	JSON(w, apperr.HTTPStatus(code), ErrorBody{OK: false, Error: info})
}

// Unauthorized sends a 401 response
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, apperr.Unauthenticated(message))
}

// ValidationError sends a 400 response with per-field details
func ValidationError(w http.ResponseWriter, details map[string]string) {
	Error(w, apperr.InvalidArgument("Validation failed").WithDetails(details))
}

// InternalError sends a 500 response
func InternalError(w http.ResponseWriter) {
	Error(w, apperr.Internal(nil))
}

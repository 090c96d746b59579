package apierror

import (
	"encoding/json"
	"net/http"
)

// Error represents a structured API error response.
// The wire shape matches what the chat relay and frontend expect:
// {"error": "<code>", "details": ...}
type Error struct {
	StatusCode int         `json:"-"`
	Code       string      `json:"error"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if s, ok := e.Details.(string); ok {
		return e.Code + ": " + s
	}
	return e.Code
}

// WithDetails attaches a detail payload (string or list of messages).
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// ToJSON converts the error to JSON bytes.
func (e *Error) ToJSON() []byte {
	data, _ := json.Marshal(e)
	return data
}

// BadRequest creates a 400 bad_request error.
func BadRequest(details interface{}) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       "bad_request",
		Details:    details,
	}
}

// Unauthorized creates a 401 unauthorized error.
func Unauthorized(details interface{}) *Error {
	return &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       "unauthorized",
		Details:    details,
	}
}

// Forbidden creates a 403 forbidden error.
func Forbidden(details interface{}) *Error {
	return &Error{
		StatusCode: http.StatusForbidden,
		Code:       "forbidden",
		Details:    details,
	}
}

// NotFound creates a 404 not_found error.
func NotFound(details interface{}) *Error {
	return &Error{
		StatusCode: http.StatusNotFound,
		Code:       "not_found",
		Details:    details,
	}
}

// DBError creates a 500 db_error for a failed store operation.
// The store's raw error message is surfaced, matching the original contract.
func DBError(err error) *Error {
	e := &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       "db_error",
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// ServerError creates a generic 500 server_error with no detail leak.
func ServerError() *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       "server_error",
	}
}

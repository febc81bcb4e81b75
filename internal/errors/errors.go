package errors

import (
	"fmt"
	"net/http"
)

// Error is a request-scoped failure carrying the HTTP status it maps to.
// Handlers return it as-is; the router's error handler renders the envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports bad or duplicate input (400).
func Validation(format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Auth reports missing or invalid credentials, an invalid session, or an
// ownership failure on booking routes (401).
func Auth(format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Forbidden reports an authenticated caller with an insufficient role (403).
func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent resource (404).
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unavailable reports an unreachable or timed-out backing store (503).
// Clients may retry.
func Unavailable(format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Message: fmt.Sprintf(format, args...)}
}

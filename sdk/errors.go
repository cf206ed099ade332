package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Common SDK errors that clients can check for specific error handling.
var (
	// ErrInvalidConfig indicates the client configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrBadRequest indicates the request was malformed or invalid.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates the provided credentials are invalid.
	ErrUnauthorized = errors.New("unauthorized: invalid credentials")

	// ErrForbidden indicates the credentials lack permission for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates the request conflicts with existing state.
	ErrConflict = errors.New("conflict with existing resource")

	// ErrRateLimited indicates the request was rate limited by the server.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServerError indicates an internal server error occurred.
	ErrServerError = errors.New("internal server error")
)

// APIError is returned for every non-2xx response.
// It unwraps to the sentinel matching its status code, so callers can use
// errors.Is(err, sdk.ErrNotFound) without inspecting the status.
type APIError struct {
	// StatusCode is the HTTP status of the response
	StatusCode int

	// Code is the machine-readable code from the error body, if any
	Code string

	// Message is the server's human-readable explanation, if any
	Message string

	// RequestID identifies the failed request in server logs
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap returns the sentinel error for the status code, or nil for unmapped codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity,
		e.StatusCode == http.StatusRequestEntityTooLarge:
		return ErrBadRequest
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrConflict
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrServerError
	}
	return nil
}

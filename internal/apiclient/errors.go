package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the job-board API. Callers can use
// errors.As to read the status:
//
//	var apiErr *apiclient.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
type APIError struct {
	StatusCode int
	// Message is the server's "error" (or "message") field, or the HTTP
	// status text when the body carried neither.
	Message string
	// FromServer is true when Message came from the response body.
	FromServer bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// ErrUnexpectedShape is returned when a list endpoint answers with something
// other than a list (typically an error object with a 200 status).
var ErrUnexpectedShape = errors.New("api: unexpected response shape")

// ErrInvalidAuthResponse is returned when login/signup succeed without
// carrying both a token and a user.
var ErrInvalidAuthResponse = errors.New("api: auth response missing token or user")

// IsUnauthorized reports whether err is a 401 or 403 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// UserMessage turns any client error into something safe to show a user:
// the server's own message when it sent one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.FromServer {
		return apiErr.Message
	}
	return fallback
}

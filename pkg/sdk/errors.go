package sdk

import (
	"errors"
	"fmt"
)

// Error codes returned by the API.
const (
	CodeBadRequest            = "bad_request"
	CodeUnauthorized          = "unauthorized"
	CodeForbidden             = "forbidden"
	CodeNotFound              = "not_found"
	CodeConflict              = "conflict"
	CodeTimeConflict          = "time_conflict"
	CodeAlreadyRegistered     = "already_registered"
	CodeProfileCreationFailed = "profile_creation_failed"
	CodePartialFailure        = "partial_failure"
	CodeTooManyRequests       = "too_many_requests"
	CodeInternalError         = "internal_error"
)

var (
	// ErrMissingConfig is returned when the base URL or API key is empty.
	ErrMissingConfig = errors.New("sdk: missing configuration")
	// ErrNotSignedIn is returned by SessionStore calls that need a session.
	ErrNotSignedIn = errors.New("sdk: not signed in")
)

// APIError is an error envelope returned by the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tradefair api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// ErrorCode returns the API error code carried by err, or "" when err is not an *APIError.
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

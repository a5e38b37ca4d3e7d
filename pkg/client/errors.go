package client

import (
	"errors"
	"fmt"
)

// APIError represents a failed remote call with the HTTP status attached.
// Remote failures are never retried; the status is propagated as-is.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pageviews request failed with status code %d: %s: %v",
			e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("pageviews request failed with status code %d: %s",
		e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusOf extracts the HTTP status code from an error chain. It returns
// 0 when the error does not carry a remote status.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		expected string
	}{
		{
			name: "error with wrapped error",
			apiError: &APIError{
				StatusCode: 500,
				Message:    "500 Internal Server Error",
				Err:        errors.New("connection refused"),
			},
			expected: "pageviews request failed with status code 500: 500 Internal Server Error: connection refused",
		},
		{
			name: "error without wrapped error",
			apiError: &APIError{
				StatusCode: 404,
				Message:    "404 Not Found",
			},
			expected: "pageviews request failed with status code 404: 404 Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.apiError.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	wrapped := errors.New("wrapped error")
	apiErr := &APIError{StatusCode: 500, Message: "server error", Err: wrapped}

	if apiErr.Unwrap() != wrapped {
		t.Errorf("Unwrap() = %v, want %v", apiErr.Unwrap(), wrapped)
	}
	if !errors.Is(apiErr, wrapped) {
		t.Error("errors.Is should work with wrapped error")
	}
}

func TestStatusOf(t *testing.T) {
	apiErr := &APIError{StatusCode: 404, Message: "404 Not Found"}

	if got := StatusOf(apiErr); got != 404 {
		t.Errorf("StatusOf(apiErr) = %d, want 404", got)
	}
	if got := StatusOf(fmt.Errorf("fetch page: %w", apiErr)); got != 404 {
		t.Errorf("StatusOf(wrapped) = %d, want 404", got)
	}
	if got := StatusOf(errors.New("plain")); got != 0 {
		t.Errorf("StatusOf(plain) = %d, want 0", got)
	}
	if got := StatusOf(nil); got != 0 {
		t.Errorf("StatusOf(nil) = %d, want 0", got)
	}
}

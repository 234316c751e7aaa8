package fetcher

import (
	"fmt"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, timeout, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeStatus indicates the API answered with a non-2xx HTTP status
	ErrorTypeStatus ErrorType = "status"
	// ErrorTypeDecode indicates the response body could not be decoded as JSON
	ErrorTypeDecode ErrorType = "decode"
)

// MissingCredentialError is returned by parameter builders when the API key
// (or another required credential) for a source is absent or empty. Unlike
// transport failures it is never converted into an absence marker; batch
// callers see it directly.
type MissingCredentialError struct {
	// Var is the environment variable the credential is expected in.
	Var string
}

// Error implements the error interface
func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s is not set", e.Var)
}

// FetchError represents a transport-level failure of a single fetch attempt.
// Fetch routines recover these locally: the failure is logged at error level
// and the identifier gets an absence marker. A FetchError never aborts a batch.
type FetchError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNetwork,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewStatusError creates an error for a non-2xx HTTP response
func NewStatusError(statusCode int) *FetchError {
	return &FetchError{
		Type:       ErrorTypeStatus,
		StatusCode: statusCode,
		Message:    "API returned a non-success status",
	}
}

// NewDecodeError creates an error for an undecodable response body
func NewDecodeError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeDecode,
		Message: "response body is not valid JSON",
		Cause:   cause,
	}
}

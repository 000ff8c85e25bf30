// Package syncerror defines the error values shared by the store, the cache and the remote client.
package syncerror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that no transaction has the requested id.
	ErrNotFound = errors.New("transaction not found")

	// ErrValidation indicates that user input failed validation checks.
	ErrValidation = errors.New("validation error")

	// ErrRemoteNotConfigured indicates that no remote endpoint URL is set.
	ErrRemoteNotConfigured = errors.New("remote endpoint not configured")

	// ErrNothingToCopy indicates that the source month of a copy has no eligible records.
	ErrNothingToCopy = errors.New("no transactions to copy in source month")
)

// TransportError represents a request that could not be dispatched at all
// (unreachable host, DNS failure, malformed URL).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError represents a non-success HTTP status on a request whose response is inspected.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected HTTP status %d", e.Op, e.StatusCode)
}

// PayloadError represents a response body that cannot be used at all.
type PayloadError struct {
	Reason  string
	Snippet string // Optional: the beginning of the offending body
}

func (e *PayloadError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("malformed payload: %s. Body snippet: '%s'", e.Reason, e.Snippet)
	}
	return fmt.Sprintf("malformed payload: %s", e.Reason)
}

// ValidationError represents a single rejected field of user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Snippet truncates body for inclusion in a PayloadError.
func Snippet(body []byte, max int) string {
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}

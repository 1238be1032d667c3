package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures and timeouts.
	ErrorClassNetwork ErrorClass = "network"
)

// Error is a failed upstream call. StatusCode is zero when no response was
// received.
type Error struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("upstream %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// HasStatus reports whether the upstream answered with an HTTP status.
func (e *Error) HasStatus() bool {
	return e.StatusCode != 0
}

// classify maps a transport error or a response status to an ErrorClass.
// It returns "" for statuses that are not failures.
func classify(statusCode int, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case statusCode >= 500:
		return ErrorClassServer
	case statusCode >= 400:
		return ErrorClassClient
	case statusCode >= 300:
		// Redirects are followed by net/http; anything left is unusable.
		return ErrorClassClient
	case statusCode < 200:
		return ErrorClassServer
	default:
		return ""
	}
}

// statusError builds the Error for a non-2xx response.
func statusError(resp *http.Response) *Error {
	return &Error{
		StatusCode: resp.StatusCode,
		Class:      classify(resp.StatusCode, nil),
		Message:    resp.Status,
	}
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassServer, ErrorClassNetwork:
		return true
	default:
		// 4xx answers are final: the asset or album does not exist.
		return false
	}
}

// classOf extracts the ErrorClass of err, or "" when err is not an *Error.
func classOf(err error) ErrorClass {
	var upErr *Error
	if errors.As(err, &upErr) {
		return upErr.Class
	}
	return ""
}

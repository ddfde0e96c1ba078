// Package errors provides the error taxonomy for the Cortex backend client.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrNoResponse      = errors.New("no response from server")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrInvalidInput    = errors.New("invalid input")
)

// User-facing replies shown in place of an assistant answer.
const (
	MsgNoResponse = "No response from server. Please try again."
	MsgFallback   = "Unable to get response."
	MsgCancelled  = "Request cancelled."
)

// APIError represents a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Endpoint   string
	Detail     string // "detail" field of the error body, if any
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = "request failed"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, msg)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, msg)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, detail string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Detail:     detail,
	}
}

// NewAPIErrorWithBody creates an APIError keeping the raw body for diagnostics
func NewAPIErrorWithBody(statusCode int, endpoint, detail, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Detail:     detail,
		Body:       body,
	}
}

// NetworkError means the request was sent but no response came back
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s (%s): %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is matches ErrNoResponse
func (e *NetworkError) Is(target error) bool {
	return target == ErrNoResponse
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request that exceeded its deadline
type TimeoutError struct {
	Endpoint string
	Err      error
}

func (e *TimeoutError) Error() string {
	if e.Endpoint == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Endpoint)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Is matches ErrNoResponse; a timeout is a missing response
func (e *TimeoutError) Is(target error) bool {
	return target == ErrNoResponse
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(endpoint string, err error) *TimeoutError {
	return &TimeoutError{Endpoint: endpoint, Err: err}
}

// CancelledError represents a request cancelled by the caller
type CancelledError struct {
	Endpoint string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("request cancelled: %s", e.Endpoint)
}

// Is matches context.Canceled
func (e *CancelledError) Is(target error) bool {
	return target == context.Canceled
}

// RequestError means the request could not be built or sent
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("request error: %s", e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// NewRequestError creates a new RequestError
func NewRequestError(message string, err error) *RequestError {
	return &RequestError{Message: message, Err: err}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// DownloadError represents a failed artifact download
type DownloadError struct {
	Filename   string
	StatusCode int
	Message    string
}

func (e *DownloadError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("download of %s failed [%d]: %s", e.Filename, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("download of %s failed: %s", e.Filename, e.Message)
}

// NewDownloadError creates a new DownloadError
func NewDownloadError(filename string, statusCode int, message string) *DownloadError {
	return &DownloadError{Filename: filename, StatusCode: statusCode, Message: message}
}

// ValidationError is returned when local input is rejected before any request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is matches ErrInvalidInput
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNetworkError reports whether no response was received (including timeouts)
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNoResponse)
}

// IsTimeoutError reports whether err is a request timeout
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsCancelled reports whether the caller cancelled the request
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// GetHTTPStatus returns the HTTP status of an APIError, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// UserMessage maps an error to the text shown as the assistant reply.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if strings.TrimSpace(apiErr.Detail) != "" {
			return apiErr.Detail
		}
		return MsgFallback
	}

	switch {
	case IsCancelled(err):
		return MsgCancelled
	case IsNetworkError(err):
		return MsgNoResponse
	default:
		return MsgFallback
	}
}

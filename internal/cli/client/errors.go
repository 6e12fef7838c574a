package client

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel error kinds for API results. Callers branch on these with the
// Is* predicates; cancellation is never shown to the user.
var (
	ErrCancelled    = errors.New("request cancelled")
	ErrConnectivity = errors.New("backend unreachable")
	ErrServer       = errors.New("server error")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
)

// APIError wraps a sentinel kind with an HTTP status and a user-facing
// message.
type APIError struct {
	Status  int    // HTTP status; 0 when no response reached the server
	Message string
	kind    error
}

// Error implements the error interface (for logs and wrapping).
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%v (HTTP %d): %s", e.kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.kind, e.Message)
}

// UserMessage returns a message safe to show to the user.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.kind {
	case ErrConnectivity:
		return "cannot connect to the backend, make sure the server is running"
	case ErrNotFound:
		return "the requested resource was not found"
	case ErrValidation:
		return "the request is invalid"
	default:
		return "the server could not process the request"
	}
}

// Unwrap returns the sentinel kind for errors.Is matching.
func (e *APIError) Unwrap() error { return e.kind }

// NewCancelledError marks a result of a cancelled request.
func NewCancelledError() error {
	return &APIError{kind: ErrCancelled}
}

// NewConnectivityError marks a request that never reached the server.
func NewConnectivityError(cause error) error {
	return &APIError{
		kind:    ErrConnectivity,
		Message: fmt.Sprintf("cannot connect to backend: %v", cause),
	}
}

// NewServerError marks a response with a failure status or a
// business-logic failure flag.
func NewServerError(status int, detail string) error {
	kind := ErrServer
	if status == 404 {
		kind = ErrNotFound
	}
	return &APIError{kind: kind, Status: status, Message: detail}
}

// NewValidationError marks input rejected client-side, before any request
// is issued.
func NewValidationError(message string) error {
	return &APIError{kind: ErrValidation, Message: message}
}

// IsCancelled reports whether the error is a swallowed cancellation.
// Plain context cancellation counts as well, so callers can pass errors
// straight from the transport.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// IsConnectivity reports whether no response reached the server.
func IsConnectivity(err error) bool {
	return errors.Is(err, ErrConnectivity)
}

// IsServer reports whether the server answered with a failure.
func IsServer(err error) bool {
	return errors.Is(err, ErrServer) || errors.Is(err, ErrNotFound)
}

// IsValidation reports whether the input was rejected client-side.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// UserMessage extracts the user-facing message from any API error, falling
// back to the raw error text.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

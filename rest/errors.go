package rest

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories produced by the client
// and its transports. Every failure path yields exactly one *RestError whose
// kind matches the pipeline stage that produced it.
type ErrorKind string

const (
	ConnectError       ErrorKind = "connect"
	SendError          ErrorKind = "send"
	ReceiveError       ErrorKind = "receive"
	TimeoutError       ErrorKind = "timeout"
	RejectedError      ErrorKind = "rejected"
	ParseError         ErrorKind = "parse"
	InternalError      ErrorKind = "internal"
	MockTransportError ErrorKind = "mock_transport"
)

// RestError is the single error type surfaced by this package. Callers branch
// on Kind to decide handling; Status is 0 when no HTTP status applies.
type RestError struct {
	kind      ErrorKind
	status    int
	message   string
	retryable bool
	wrapped   error
}

func (e *RestError) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.kind, e.message)
	if e.status != 0 {
		msg += fmt.Sprintf(" (status: %d)", e.status)
	}
	if e.wrapped != nil {
		msg += ": " + e.wrapped.Error()
	}
	return msg
}

// Kind returns the failure category.
func (e *RestError) Kind() ErrorKind {
	return e.kind
}

// StatusCode returns the HTTP status attached to the error, or 0 when none applies.
func (e *RestError) StatusCode() int {
	return e.status
}

// Message returns the human-readable message without the kind prefix.
func (e *RestError) Message() string {
	return e.message
}

// IsRetryable reports whether the failure is considered transient.
func (e *RestError) IsRetryable() bool {
	return e.retryable
}

func (e *RestError) Unwrap() error {
	return e.wrapped
}

// NewConnectError creates a connection-negotiation failure.
func NewConnectError(message string, status int, retryable bool) *RestError {
	return &RestError{kind: ConnectError, status: status, message: message, retryable: retryable}
}

// NewSendError creates a request-send failure.
func NewSendError(message string, status int, retryable bool) *RestError {
	return &RestError{kind: SendError, status: status, message: message, retryable: retryable}
}

// NewReceiveError creates a response-read failure.
func NewReceiveError(message string, status int, retryable bool) *RestError {
	return &RestError{kind: ReceiveError, status: status, message: message, retryable: retryable}
}

// NewTimeoutError creates a timeout failure. Timeouts are reported but never
// retried by the checked-execution loop.
func NewTimeoutError(message string, status int, retryable bool) *RestError {
	return &RestError{kind: TimeoutError, status: status, message: message, retryable: retryable}
}

// NewRejectedError creates an HTTP-level rejection for a non-2xx status.
func NewRejectedError(status int, message string, retryable bool) *RestError {
	return &RestError{kind: RejectedError, status: status, message: message, retryable: retryable}
}

// NewParseError creates a local decode failure. Parse errors are never retryable.
func NewParseError(message string, wrapped error) *RestError {
	return &RestError{kind: ParseError, message: message, wrapped: wrapped}
}

// NewInternalError creates a local unexpected failure. Internal errors are never retryable.
func NewInternalError(message string, wrapped error) *RestError {
	return &RestError{kind: InternalError, message: message, wrapped: wrapped}
}

// NewMockTransportError creates a synthetic fault for mock-only failure modes
// not covered by the other kinds.
func NewMockTransportError(message string, status int, retryable bool) *RestError {
	return &RestError{kind: MockTransportError, status: status, message: message, retryable: retryable}
}

// IsKind checks whether err carries the given failure kind.
func IsKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}
	var restErr *RestError
	if errors.As(err, &restErr) {
		return restErr.Kind() == kind
	}
	return false
}

// KindOf extracts the failure kind from err when it is a *RestError.
func KindOf(err error) (ErrorKind, bool) {
	var restErr *RestError
	if errors.As(err, &restErr) {
		return restErr.Kind(), true
	}
	return "", false
}

// IsRetryable reports whether err is a *RestError flagged as transient.
func IsRetryable(err error) bool {
	var restErr *RestError
	if errors.As(err, &restErr) {
		return restErr.IsRetryable()
	}
	return false
}

// IsSuccessStatus checks if a status code represents success (2xx).
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

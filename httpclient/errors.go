package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failed request.
type ErrorCode string

const (
	ErrCodeTimeout        ErrorCode = "timeout"         // deadline, client timeout or canceled context
	ErrCodeConnection     ErrorCode = "connection"      // refused, DNS, reset
	ErrCodeNotFound       ErrorCode = "not_found"       // 404
	ErrCodeRateLimit      ErrorCode = "rate_limit"      // 429
	ErrCodeClient         ErrorCode = "client"          // any other 4xx
	ErrCodeServer         ErrorCode = "server"          // 5xx and unfollowed 1xx/3xx
	ErrCodeTooLarge       ErrorCode = "too_large"       // body over Config.MaxBodyBytes
	ErrCodeInvalidRequest ErrorCode = "invalid_request" // request could not be built
)

func (c ErrorCode) String() string {
	if c == "" {
		return "unknown"
	}
	return string(c)
}

// Error is a classified request failure. StatusCode is 0 when no response
// arrived. Body keeps the response body of a non-2xx answer.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewTimeoutError wraps a request that ran out of time or was canceled.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError wraps a request that never got a response.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewValidationError reports a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeInvalidRequest, Message: msg}
}

// NewTooLargeError reports a body longer than limit bytes.
func NewTooLargeError(limit int64) *Error {
	return &Error{Code: ErrCodeTooLarge, Message: fmt.Sprintf("response body exceeds %d bytes", limit)}
}

// ClassifyStatusCode returns nil for a 2xx status and a classified *Error
// otherwise. 429 and 5xx are retryable.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	e := &Error{StatusCode: statusCode, Message: http.StatusText(statusCode), Body: body}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d", statusCode)
	}
	switch {
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeClient
	case statusCode >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// asError finds the *Error in err's chain.
func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := asError(err)
	return ok && e.Code == code
}

func IsTimeout(err error) bool     { return hasCode(err, ErrCodeTimeout) }
func IsConnection(err error) bool  { return hasCode(err, ErrCodeConnection) }
func IsNotFound(err error) bool    { return hasCode(err, ErrCodeNotFound) }
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }

// IsRetryable reports whether repeating the request could succeed.
func IsRetryable(err error) bool {
	e, ok := asError(err)
	return ok && e.Retryable
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := asError(err); ok {
		return e.StatusCode
	}
	return 0
}

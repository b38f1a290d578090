package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is a failure of the export run. Details carry context such as
// the URL or a hint for the operator; Cause stays reachable through
// errors.Is and errors.As.
type AppError struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets one detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// WithDetails merges details into e's and returns e.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

func newError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Transport reports a request to url that produced no usable body. It is
// retryable unless the caller knows better.
func Transport(url string, cause error) *AppError {
	e := newError(ErrCodeTransport, fmt.Sprintf("request to %s failed", url), cause).WithDetail("url", url)
	e.Retryable = true
	return e
}

// Decode reports a body from url that is not JSON of the expected shape.
func Decode(url string, cause error) *AppError {
	return newError(ErrCodeDecode, fmt.Sprintf("response from %s could not be decoded", url), cause).WithDetail("url", url)
}

// Validation reports invalid configuration or input.
func Validation(message string) *AppError {
	return newError(ErrCodeInvalidInput, message, nil)
}

// Output reports rows that could not be written.
func Output(cause error) *AppError {
	return newError(ErrCodeOutput, "writing output failed", cause)
}

// Internal reports anything unexpected.
func Internal(cause error) *AppError {
	return newError(ErrCodeInternal, "An unexpected error occurred.", cause)
}

// AsAppError finds the outermost AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// CodeOf returns the code of the outermost AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

func IsTransport(err error) bool { return CodeOf(err) == ErrCodeTransport }

func IsDecode(err error) bool { return CodeOf(err) == ErrCodeDecode }

// Wrap returns the AppError in err's chain, or err as an internal error.
// Wrap(nil) is nil.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Remote data errors
const (
	// ErrCodeTransport indicates a remote request could not be completed.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeDecode indicates a remote response body could not be decoded.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates configuration or input failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeOutput indicates rows could not be written.
	ErrCodeOutput ErrorCode = "OUTPUT_ERROR"
)

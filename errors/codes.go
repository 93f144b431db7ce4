package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeFileNotReadable indicates the input artifact could not be opened or read.
	ErrCodeFileNotReadable ErrorCode = "FILE_NOT_READABLE"
	// ErrCodeInvalidInput indicates invalid arguments or configuration.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Processing errors
const (
	// ErrCodeTransformFailed indicates one or more records failed to transform.
	ErrCodeTransformFailed ErrorCode = "TRANSFORM_FAILED"
	// ErrCodeCanceled indicates the run was canceled before completion.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Output errors
const (
	// ErrCodeWriteFailure indicates the output artifact could not be written.
	ErrCodeWriteFailure ErrorCode = "WRITE_FAILURE"
	// ErrCodeUnsupportedFormat indicates an unknown output format was requested.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Process exit statuses.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitCanceled = 130
)

var exitCodes = map[ErrorCode]int{
	ErrCodeFileNotReadable:   ExitFailure,
	ErrCodeInvalidInput:      ExitUsage,
	ErrCodeTransformFailed:   ExitFailure,
	ErrCodeCanceled:          ExitCanceled,
	ErrCodeWriteFailure:      ExitFailure,
	ErrCodeUnsupportedFormat: ExitUsage,
	ErrCodeInternal:          ExitFailure,
}

// ExitCodeFor returns the process exit status associated with code.
// Unknown codes map to ExitFailure.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitFailure
}

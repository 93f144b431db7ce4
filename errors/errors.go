package errors

import (
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// ExitCode is the process exit status for this error.
	ExitCode int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with the exit status derived from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: ExitCodeFor(code),
	}
}

// --- Common Error Constructors ---

// FileNotReadable creates an AppError for an input artifact that cannot be opened or read.
func FileNotReadable(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeFileNotReadable, Message: fmt.Sprintf("Unable to open file %s", path),
		ExitCode: ExitFailure, Details: map[string]any{"path": path}, Cause: cause,
	}
}

// WriteFailure creates an AppError for an output artifact that could not be written.
func WriteFailure(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeWriteFailure, Message: fmt.Sprintf("Unable to write output %s", path),
		ExitCode: ExitFailure, Details: map[string]any{"path": path}, Cause: cause,
	}
}

// InvalidInput creates an AppError for an invalid argument or configuration value.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		ExitCode: ExitUsage, Details: details,
	}
}

// Validation creates an AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		ExitCode: ExitUsage,
	}
}

// TransformFailed creates an AppError for records that failed to transform.
// The cause is typically a *pipeline.PartialFailure.
func TransformFailed(failed int, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransformFailed, Message: fmt.Sprintf("%d record(s) failed to transform", failed),
		ExitCode: ExitFailure, Details: map[string]any{"failed": failed}, Cause: cause,
	}
}

// UnsupportedFormat creates an AppError for an unknown output format.
func UnsupportedFormat(format string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedFormat, Message: fmt.Sprintf("Unsupported output format %q", format),
		ExitCode: ExitUsage, Details: map[string]any{"format": format},
	}
}

// Canceled creates an AppError for a run that was canceled before completion.
func Canceled(phase string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: fmt.Sprintf("Run canceled during %s", phase),
		ExitCode: ExitCanceled, Details: map[string]any{"phase": phase}, Cause: cause,
	}
}

// Internal creates an AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		ExitCode: ExitFailure, Cause: cause,
	}
}

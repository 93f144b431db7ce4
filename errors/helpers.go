package errors

import (
	stderrors "errors"
)

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as-is; other errors become INTERNAL_ERROR with err as cause.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// ExitCode returns the process exit status for err: ExitOK for nil, the
// AppError's ExitCode when one is in the chain, ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.ExitCode
	}
	return ExitFailure
}

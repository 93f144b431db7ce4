package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeFileNotReadable, "missing")
	if err.Code != ErrCodeFileNotReadable {
		t.Errorf("expected code %s, got %s", ErrCodeFileNotReadable, err.Code)
	}
	if err.Message != "missing" {
		t.Errorf("expected message 'missing', got %q", err.Message)
	}
	if err.ExitCode != ExitFailure {
		t.Errorf("expected exit code %d, got %d", ExitFailure, err.ExitCode)
	}
}

func TestAppError_New_UsageCode(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad flag")
	if err.ExitCode != ExitUsage {
		t.Errorf("expected exit code %d, got %d", ExitUsage, err.ExitCode)
	}
}

func TestAppError_FileNotReadable_Success(t *testing.T) {
	cause := fmt.Errorf("no such file or directory")
	err := FileNotReadable("/data/in.txt", cause)
	if err.Code != ErrCodeFileNotReadable {
		t.Errorf("expected FILE_NOT_READABLE, got %s", err.Code)
	}
	if err.Details["path"] != "/data/in.txt" {
		t.Errorf("expected path detail, got %v", err.Details["path"])
	}
	if !strings.Contains(err.Error(), "Unable to open file") {
		t.Errorf("expected message to mention open failure, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestAppError_WriteFailure_NamesArtifact(t *testing.T) {
	err := WriteFailure("out.h5", fmt.Errorf("disk full"))
	if !strings.Contains(err.Error(), "out.h5") {
		t.Errorf("expected artifact path in error, got %q", err.Error())
	}
	if err.ExitCode != ExitFailure {
		t.Errorf("expected exit %d, got %d", ExitFailure, err.ExitCode)
	}
}

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("workers", "must be positive")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "workers" {
		t.Errorf("expected field=workers, got %v", err.Details["field"])
	}

	noField := InvalidInput("", "bad")
	if _, ok := noField.Details["field"]; ok {
		t.Error("expected no 'field' key when field is empty")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Internal(nil).WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := UnsupportedFormat("hdf5").WithDetails(map[string]any{
		"known": "binary,parquet,log",
	})
	if err.Details["known"] != "binary,parquet,log" {
		t.Errorf("expected known formats in details")
	}
	if err.Details["format"] != "hdf5" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetails_Nil(t *testing.T) {
	err := Internal(nil).WithDetails(nil)
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized even with nil input")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
		exit int
	}{
		{"FileNotReadable", FileNotReadable("a", nil), ErrCodeFileNotReadable, ExitFailure},
		{"WriteFailure", WriteFailure("b", nil), ErrCodeWriteFailure, ExitFailure},
		{"InvalidInput", InvalidInput("x", "y"), ErrCodeInvalidInput, ExitUsage},
		{"Validation", Validation("bad"), ErrCodeInvalidInput, ExitUsage},
		{"TransformFailed", TransformFailed(3, nil), ErrCodeTransformFailed, ExitFailure},
		{"UnsupportedFormat", UnsupportedFormat("csv"), ErrCodeUnsupportedFormat, ExitUsage},
		{"Canceled", Canceled("dispatch", nil), ErrCodeCanceled, ExitCanceled},
		{"Internal", Internal(nil), ErrCodeInternal, ExitFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.ExitCode != tc.exit {
				t.Errorf("expected exit %d, got %d", tc.exit, tc.err.ExitCode)
			}
			if tc.err.ExitCode != ExitCodeFor(tc.code) {
				t.Errorf("constructor exit %d disagrees with ExitCodeFor %d", tc.err.ExitCode, ExitCodeFor(tc.code))
			}
		})
	}
}

func TestExitCodeFor_Unknown(t *testing.T) {
	if got := ExitCodeFor("SOMETHING_ELSE"); got != ExitFailure {
		t.Errorf("expected %d for unknown code, got %d", ExitFailure, got)
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != ExitOK {
		t.Errorf("expected %d for nil, got %d", ExitOK, got)
	}
	wrapped := fmt.Errorf("run: %w", InvalidInput("args", "missing"))
	if got := ExitCode(wrapped); got != ExitUsage {
		t.Errorf("expected %d for wrapped usage error, got %d", ExitUsage, got)
	}
	if got := ExitCode(fmt.Errorf("plain")); got != ExitFailure {
		t.Errorf("expected %d for plain error, got %d", ExitFailure, got)
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", WriteFailure("x", nil))
	if !Is(err, ErrCodeWriteFailure) {
		t.Error("expected Is to find WRITE_FAILURE in chain")
	}
	if Is(err, ErrCodeFileNotReadable) {
		t.Error("expected Is to reject a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("expected Is to reject a plain error")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	appErr := Internal(nil)
	wrapped := fmt.Errorf("wrap: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}

	_, ok = AsAppError(fmt.Errorf("not an app error"))
	if ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("expected IsAppError to return false for plain error")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := FileNotReadable("in", nil)
	if got := Wrap(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Error("Wrap should return the AppError found in the chain")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}

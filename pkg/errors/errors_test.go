package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidRange, "count must be between 1 and %d", 5000)

	if err.Code != ErrCodeInvalidRange {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidRange)
	}
	if err.Message != "count must be between 1 and 5000" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause should be nil, got %v", err.Cause)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeFileNotFound, "no such workbook"),
			want: "FILE_NOT_FOUND: no such workbook",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeRenderFailed, fmt.Errorf("boom"), "barcode for %q", "253310001"),
			want: `RENDER_FAILED: barcode for "253310001": boom`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrCodeInternal, cause, "save workbook")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if got := stderrors.Unwrap(err); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidGeometry, "columns must be >= 1")

	if !Is(err, ErrCodeInvalidGeometry) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeInvalidRange) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeInvalidGeometry) {
		t.Error("Is should not match a plain error")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeEmptyWorkbook, "no numbers in column A")
	outer := fmt.Errorf("reading sheet: %w", inner)

	if !Is(outer, ErrCodeEmptyWorkbook) {
		t.Error("Is should unwrap standard-wrapped errors")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"structured", New(ErrCodeUnauthorized, "login required"), ErrCodeUnauthorized},
		{"plain", fmt.Errorf("plain"), ""},
		{"wrapped", fmt.Errorf("ctx: %w", New(ErrCodeNotFound, "gone")), ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	structured := New(ErrCodeInvalidFilename, "filename cannot be empty")
	if got := UserMessage(structured); got != "filename cannot be empty" {
		t.Errorf("UserMessage() = %q", got)
	}
	if strings.Contains(UserMessage(structured), string(ErrCodeInvalidFilename)) {
		t.Error("UserMessage should strip the code prefix")
	}

	plain := fmt.Errorf("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage() = %q", got)
	}
}

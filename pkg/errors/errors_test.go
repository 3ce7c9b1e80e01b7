package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "new",
			err:  New(ErrCodeInvalidInput, "index %d out of range", 7),
			want: "INVALID_INPUT: index 7 out of range",
		},
		{
			name: "wrapped",
			err:  Wrap(ErrCodeStore, errors.New("connection refused"), "save session %s", "survey"),
			want: "STORE_ERROR: save session survey: connection refused",
		},
		{
			name: "not found",
			err:  NotFound("entity %s", "n1"),
			want: "NOT_FOUND: entity n1",
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

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeStore, cause, "write snapshot")

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := errors.Unwrap(err); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
}

func TestIs(t *testing.T) {
	missing := NotFound("point n9")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", missing, ErrCodeNotFound, true},
		{"other code", missing, ErrCodeDegenerate, false},
		{"outer code of chain", Wrap(ErrCodeStore, missing, "load"), ErrCodeStore, true},
		{"inner code of chain", Wrap(ErrCodeStore, missing, "load"), ErrCodeNotFound, true},
		{"through fmt wrapping", fmt.Errorf("delete_node: %w", missing), ErrCodeNotFound, true},
		{"plain error", errors.New("plain"), ErrCodeNotFound, false},
		{"nil", nil, ErrCodeNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}

	if !IsNotFound(missing) || IsNotFound(New(ErrCodeDegenerate, "line w1")) {
		t.Error("IsNotFound() should only match NOT_FOUND")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		err  error
		want Code
	}{
		{New(ErrCodeDegenerate, "line w1"), ErrCodeDegenerate},
		{Wrap(ErrCodeTimeout, New(ErrCodeStore, "redis"), "save"), ErrCodeTimeout},
		{errors.New("plain"), ""},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := GetCode(tt.err); got != tt.want {
			t.Errorf("GetCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeInvalidAction, "nothing to undo"), "nothing to undo"},
		{Wrap(ErrCodeStore, errors.New("eof"), "load session"), "load session"},
		{errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}
	if want := "INVALID_INPUT: test message: value"; err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeStore, cause, "load people")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap() should return the cause")
	}
	if want := "STORE_ERROR: load people: connection refused"; err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestIsAndGetCode(t *testing.T) {
	base := New(ErrCodePersonNotFound, "no person %s", "p1")
	wrapped := fmt.Errorf("update: %w", base)

	if !Is(wrapped, ErrCodePersonNotFound) {
		t.Error("Is should find the code through fmt.Errorf wrapping")
	}
	if Is(wrapped, ErrCodeStore) {
		t.Error("Is should not match a different code")
	}
	if GetCode(wrapped) != ErrCodePersonNotFound {
		t.Errorf("GetCode = %v", GetCode(wrapped))
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode of a plain error should be empty")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(fmt.Errorf("x: %w", New(ErrCodeInvalidConfig, "bad threshold"))); got != "bad threshold" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage = %q", got)
	}
}

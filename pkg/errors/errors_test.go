package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeEdgeRejected, "connecting %s → %s would create a cycle", "3", "1")
	want := "EDGE_REJECTED: connecting 3 → 1 would create a cycle"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	cause := stderrors.New("boom")
	wrapped := Wrap(ErrCodeStorage, cause, "save graph %s", "g1")
	if wrapped.Error() != "STORAGE_ERROR: save graph g1: boom" {
		t.Errorf("wrapped Error() = %q", wrapped.Error())
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNodeNotFound, "unknown node")
	if !Is(err, ErrCodeNodeNotFound) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeEdgeRejected) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNodeNotFound) {
		t.Error("Is should not match plain errors")
	}
	if Is(nil, ErrCodeNodeNotFound) {
		t.Error("Is should not match nil")
	}

	// Code is found through wrapping layers
	outer := fmt.Errorf("handler: %w", err)
	if !Is(outer, ErrCodeNodeNotFound) {
		t.Error("Is should unwrap to find the code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidFormat, "bad")); got != ErrCodeInvalidFormat {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode of plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidLabel, "node label too long")
	if got := UserMessage(err); got != "node label too long" {
		t.Errorf("UserMessage = %q", got)
	}

	// Plain errors pass through untouched
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage of plain error = %q", got)
	}
}

package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "book not found",
			},
			want: "book not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeTransient,
				Message: "Request timed out",
				Cause:   errors.New("dial tcp: i/o timeout"),
			},
			want: "Request timed out: dial tcp: i/o timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
	if Wrap(nil, ErrCodeInternal, "nothing") != nil {
		t.Errorf("Wrap(nil) should return nil")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"unauthenticated", Unauthenticated("no"), IsUnauthenticated},
		{"forbidden", Forbidden("no"), IsForbidden},
		{"not found", NotFoundf("book %d", 7), IsNotFound},
		{"validation", ValidationField("title", "Title is required."), IsValidation},
		{"transient", Transient("Request timed out"), IsTransient},
		{"malformed", Malformedf("bad %s", "json"), IsMalformed},
		{"upstream", Upstream("boom"), IsUpstream},
		{"internal", Internal("boom"), IsInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("call failed: %w", tt.err)
			if !tt.is(wrapped) {
				t.Fatalf("predicate did not match wrapped %v", tt.err)
			}
			if tt.is(errors.New("plain")) {
				t.Fatalf("predicate matched a plain error")
			}
		})
	}
}

func TestGetFieldAndStatus(t *testing.T) {
	err := ValidationField("title", "Title is required.").WithStatus(422)
	if GetField(err) != "title" {
		t.Fatalf("GetField() = %q", GetField(err))
	}
	if err.Status != 422 {
		t.Fatalf("Status = %d", err.Status)
	}
	if GetCode(errors.New("x")) != "" {
		t.Fatalf("GetCode on plain error should be empty")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Validation("ISBN already exists"), "Failed to save book."); got != "ISBN already exists" {
		t.Fatalf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("x"), "Failed to save book."); got != "Failed to save book." {
		t.Fatalf("UserMessage() fallback = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindNone},
		{Unauthenticated("expired"), KindAuth},
		{Forbidden("admin only"), KindAuthorization},
		{Transient("offline"), KindTransientNetwork},
		{fmt.Errorf("get: %w", context.DeadlineExceeded), KindTransientNetwork},
		{Validation("bad"), KindValidation},
		{Upstream("500"), KindUnexpectedResponse},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestProfileKindOf(t *testing.T) {
	if got := ProfileKindOf(Transient("offline")); got != KindTransientNetwork {
		t.Fatalf("got %q", got)
	}
	for _, err := range []error{Unauthenticated("x"), Malformed("x"), Upstream("x"), Forbidden("x")} {
		if got := ProfileKindOf(err); got != KindProfile {
			t.Fatalf("ProfileKindOf(%v) = %q", err, got)
		}
	}
}

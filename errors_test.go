package toolgate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/zero-day-ai/toolgate/catalog"
	"github.com/zero-day-ai/toolgate/settings"
)

// TestSentinelErrors verifies that all sentinel errors are defined correctly.
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "ErrNoSettings",
			err:  ErrNoSettings,
			want: "no settings store configured",
		},
		{
			name: "ErrWatchUnsupported",
			err:  ErrWatchUnsupported,
			want: "settings store does not support watching",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("error message = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestErrorError verifies the Error() method formatting.
func TestErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "basic error",
			err: &Error{
				Op:   "Gate.SyncSettings",
				Kind: KindSettings,
				Err:  settings.ErrClosed,
			},
			want: "toolgate: Gate.SyncSettings (settings): settings store is closed",
		},
		{
			name: "error with context",
			err: &Error{
				Op:      "Gate.SetEnabled",
				Kind:    KindSettings,
				Err:     settings.ErrClosed,
				Context: map[string]any{"tool": "ferry_get_prices"},
			},
			want: "toolgate: Gate.SetEnabled (settings): settings store is closed [context:",
		},
		{
			name: "error without underlying error",
			err: &Error{
				Op:   "Gate.SetEnabled",
				Kind: KindValidation,
			},
			want: "toolgate: Gate.SetEnabled: validation",
		},
		{
			name: "error with wrapped error",
			err: &Error{
				Op:   "Gate.SetEnabled",
				Kind: KindNotFound,
				Err:  fmt.Errorf("%w: %s", catalog.ErrUnknownTool, "submarine_search"),
			},
			want: "toolgate: Gate.SetEnabled (not_found): unknown tool: submarine_search",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if !strings.Contains(got, tt.want) {
				t.Errorf("Error() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

// TestErrorIs verifies the Is() method and errors.Is() compatibility.
func TestErrorIs(t *testing.T) {
	base := &Error{
		Op:   "Gate.SyncSettings",
		Kind: KindSettings,
		Err:  fmt.Errorf("load: %w", settings.ErrClosed),
	}

	tests := []struct {
		name   string
		target error
		want   bool
	}{
		{"matches wrapped sentinel", settings.ErrClosed, true},
		{"matches by kind", &Error{Kind: KindSettings}, true},
		{"matches by kind and op", &Error{Op: "Gate.SyncSettings", Kind: KindSettings}, true},
		{"different op", &Error{Op: "Gate.SetEnabled", Kind: KindSettings}, false},
		{"different kind", &Error{Kind: KindValidation}, false},
		{"different sentinel", ErrNoSettings, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(base, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestErrorAs verifies errors.As() compatibility.
func TestErrorAs(t *testing.T) {
	original := NewNotFoundError("Gate.SetEnabled", catalog.ErrUnknownTool).
		WithContext(map[string]any{"tool": "submarine_search"})
	wrapped := fmt.Errorf("outer error: %w", original)

	var gateErr *Error
	if !errors.As(wrapped, &gateErr) {
		t.Fatal("errors.As() failed to extract Error")
	}
	if gateErr.Op != "Gate.SetEnabled" {
		t.Errorf("Op = %q, want %q", gateErr.Op, "Gate.SetEnabled")
	}
	if gateErr.Context["tool"] != "submarine_search" {
		t.Errorf("Context[tool] = %v, want submarine_search", gateErr.Context["tool"])
	}
}

// TestErrorWithContext verifies WithContext leaves the original untouched.
func TestErrorWithContext(t *testing.T) {
	original := &Error{Op: "Gate.SetEnabled", Kind: KindSettings, Err: settings.ErrClosed}

	withCtx := original.WithContext(map[string]any{"tool": "hotel_search"})
	if original.Context != nil {
		t.Error("original error Context was modified")
	}

	withMore := withCtx.WithContext(map[string]any{"enabled": false})
	if withMore.Context["tool"] != "hotel_search" {
		t.Error("tool context was lost")
	}
	if withMore.Context["enabled"] != false {
		t.Error("enabled context was not added")
	}
	if _, ok := withCtx.Context["enabled"]; ok {
		t.Error("WithContext modified the receiver's context")
	}
}

// TestNewErrorFunctions verifies the constructor functions.
func TestNewErrorFunctions(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(string, error) *Error
		err      error
		wantKind string
	}{
		{"NewNotFoundError", NewNotFoundError, errors.New("x"), KindNotFound},
		{"NewValidationError", NewValidationError, errors.New("x"), KindValidation},
		{"NewConfigurationError", NewConfigurationError, errors.New("x"), KindConfiguration},
		{"NewSettingsError", NewSettingsError, errors.New("x"), KindSettings},
		{"NewSettingsError deadline", NewSettingsError, fmt.Errorf("load: %w", context.DeadlineExceeded), KindTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn("Test.Operation", tt.err)

			if err.Op != "Test.Operation" {
				t.Errorf("Op = %q, want %q", err.Op, "Test.Operation")
			}
			if err.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", err.Kind, tt.wantKind)
			}
			if !errors.Is(err, tt.err) {
				t.Error("underlying error not preserved")
			}
		})
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestUserFriendlyError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      UserFriendlyError
		contains []string
	}{
		{
			name:     "message only",
			err:      UserFriendlyError{Message: "something broke"},
			contains: []string{"something broke"},
		},
		{
			name: "all fields",
			err: UserFriendlyError{
				Message: "open failed",
				Reason:  "missing",
				Hint:    "check path",
				Try:     "ls",
				Err:     fmt.Errorf("open trace.txt: no such file"),
			},
			contains: []string{"open failed", "Reason: missing", "Hint: check path", "Try: ls", "Details: open trace.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Error() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestWrapFileReadError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapFileReadError(nil, "trace.txt") != nil {
			t.Error("expected nil")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, statErr := os.Stat("/nonexistent/trace.txt")
		err := WrapFileReadError(statErr, "/nonexistent/trace.txt")
		if !stderrors.Is(err, ErrFileRead) {
			t.Error("should match ErrFileRead")
		}
		if !stderrors.Is(err, os.ErrNotExist) {
			t.Error("should keep the underlying os error")
		}
		ufe := err.(UserFriendlyError)
		if ufe.Reason != "File does not exist" {
			t.Errorf("unexpected reason: %q", ufe.Reason)
		}
		if !strings.Contains(ufe.Message, "/nonexistent/trace.txt") {
			t.Errorf("message should contain path, got %q", ufe.Message)
		}
	})

	t.Run("generic failure", func(t *testing.T) {
		err := WrapFileReadError(fmt.Errorf("boom"), "trace.txt")
		ufe := err.(UserFriendlyError)
		if ufe.Reason != "File system operation failed" {
			t.Errorf("unexpected reason: %q", ufe.Reason)
		}
	})
}

func TestWrapFileWriteError(t *testing.T) {
	if WrapFileWriteError(nil, "trace.txt", 3) != nil {
		t.Error("expected nil")
	}

	err := WrapFileWriteError(os.ErrPermission, "trace.txt", 3)
	if !stderrors.Is(err, ErrFileWrite) {
		t.Error("should match ErrFileWrite")
	}
	if stderrors.Is(err, ErrFileRead) {
		t.Error("should not match ErrFileRead")
	}
	ufe := err.(UserFriendlyError)
	if !strings.Contains(ufe.Message, "line 3") {
		t.Errorf("message should name the line, got %q", ufe.Message)
	}
	if ufe.Reason != "Permission denied" {
		t.Errorf("unexpected reason: %q", ufe.Reason)
	}
}

func TestWrapConfigError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapConfigError(nil, "config.yaml") != nil {
			t.Error("expected nil")
		}
	})

	t.Run("wraps config error", func(t *testing.T) {
		err := WrapConfigError(fmt.Errorf("invalid yaml"), "packetbrowser.yaml")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Message, "packetbrowser.yaml") {
			t.Errorf("message should contain config path, got %q", ufe.Message)
		}
		if ufe.Reason != "invalid yaml" {
			t.Errorf("reason should be inner error message, got %q", ufe.Reason)
		}
		if !strings.Contains(ufe.Hint, "config init") {
			t.Errorf("hint should reference config init, got %q", ufe.Hint)
		}
	})
}

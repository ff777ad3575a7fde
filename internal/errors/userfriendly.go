package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
)

// Failure categories surfaced by the loader, the table model and persistence.
var (
	ErrFileRead        = stderrors.New("trace file could not be read")
	ErrInvalidRecord   = stderrors.New("invalid record")
	ErrInvalidIPFormat = stderrors.New("invalid IPv4 address")
	ErrInvalidEdit     = stderrors.New("invalid edit")
	ErrFileWrite       = stderrors.New("trace file could not be written")
	ErrIndexOutOfRange = stderrors.New("index out of range")
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapFileReadError wraps a trace file read failure. The result matches ErrFileRead.
func WrapFileReadError(err error, path string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to open trace file %s", path),
		Reason:  extractFileReason(err),
		Hint:    "Trace files are UTF-8 text with one tab-delimited record per line",
		Try:     fmt.Sprintf("ls -l %s", path),
		Err:     fmt.Errorf("%w: %w", ErrFileRead, err),
	}
}

// WrapFileWriteError wraps a failed rewrite of a trace file after an edit.
// The in-memory edit has already been applied when this is returned.
func WrapFileWriteError(err error, path string, line int) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Edit to line %d was kept in memory but not saved to %s", line, path),
		Reason:  extractFileReason(err),
		Hint:    "Check that the file and its directory are writable",
		Err:     fmt.Errorf("%w: %w", ErrFileWrite, err),
	}
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Generate a commented default with: packetbrowser config init",
		Try:     fmt.Sprintf("packetbrowser config show --config %s", configPath),
		Err:     err,
	}
}

func extractFileReason(err error) string {
	switch {
	case stderrors.Is(err, os.ErrNotExist):
		return "File does not exist"
	case stderrors.Is(err, os.ErrPermission):
		return "Permission denied"
	}

	errStr := err.Error()
	if strings.Contains(errStr, "is a directory") {
		return "Path is a directory, not a file"
	}
	if strings.Contains(errStr, "no space left") {
		return "Disk is full"
	}

	return "File system operation failed"
}

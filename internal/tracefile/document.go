// Package tracefile keeps the text of an open trace file in memory and writes
// it back after edits.
package tracefile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/NeedsSoySauce/Packet-Browser/internal/errors"
)

// Document is the line buffer for one file. Replacing a line and saving are
// serialized so two writers never interleave output.
type Document struct {
	mu           sync.Mutex
	path         string
	lines        []string
	newline      string
	finalNewline bool
	revision     int
}

// Open reads path into a Document. Failures match errors.ErrFileRead.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapFileReadError(err, path)
	}
	return parse(path, data), nil
}

func parse(path string, data []byte) *Document {
	d := &Document{path: path, newline: "\n"}
	if bytes.Contains(data, []byte("\r\n")) {
		d.newline = "\r\n"
	}
	text := string(data)
	if text == "" {
		return d
	}
	d.finalNewline = strings.HasSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	for _, line := range strings.Split(text, "\n") {
		d.lines = append(d.lines, strings.TrimSuffix(line, "\r"))
	}
	return d
}

// Path returns the file the document was read from.
func (d *Document) Path() string { return d.path }

// Lines returns a copy of the current lines.
func (d *Document) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Revision counts successful saves.
func (d *Document) Revision() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revision
}

func (d *Document) check(n int) error {
	if n < 1 || n > len(d.lines) {
		return fmt.Errorf("%w: line %d of %d", apperrors.ErrIndexOutOfRange, n, len(d.lines))
	}
	return nil
}

// Rewrite replaces the 1-based line n and saves the whole file. When the save
// fails the buffer keeps the new text and the error matches errors.ErrFileWrite.
func (d *Document) Rewrite(n int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(n); err != nil {
		return err
	}
	d.lines[n-1] = text
	if err := d.save(); err != nil {
		return apperrors.WrapFileWriteError(err, d.path, n)
	}
	return nil
}

// save writes to a temporary file next to the target and renames it over the
// original, so readers see either the old or the new file.
func (d *Document) save() error {
	var buf bytes.Buffer
	for i, line := range d.lines {
		buf.WriteString(line)
		if i < len(d.lines)-1 || d.finalNewline {
			buf.WriteString(d.newline)
		}
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(d.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", d.path, err)
	}
	d.revision++
	return nil
}

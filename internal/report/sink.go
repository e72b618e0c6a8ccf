package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink is a buffered, line-oriented destination for a report: standard
// output or a file. It is written from a single goroutine only.
type Sink struct {
	file  *os.File
	buf   *bufio.Writer
	path  string
	tty   bool
	owned bool
}

// OpenSink opens the report destination. An empty path or "-" selects
// standard output; anything else is created (or truncated) as a file, along
// with its parent directory.
func OpenSink(path string) (*Sink, error) {
	if path == "" || path == "-" {
		return NewSink(os.Stdout), nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	s := NewSink(f)
	s.path = path
	s.owned = true
	return s, nil
}

// NewSink wraps an already open file without taking ownership of it.
func NewSink(f *os.File) *Sink {
	return &Sink{
		file: f,
		buf:  bufio.NewWriter(f),
		path: f.Name(),
		tty:  checkIsTerminal(f),
	}
}

// Write implements io.Writer.
func (s *Sink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// IsTerminal reports whether the sink is an interactive terminal.
func (s *Sink) IsTerminal() bool {
	return s.tty
}

// Path returns the file path of the sink.
func (s *Sink) Path() string {
	return s.path
}

// IsFile reports whether OpenSink created the sink's file.
func (s *Sink) IsFile() bool {
	return s.owned
}

// Flush writes any buffered text to the underlying file.
func (s *Sink) Flush() error {
	return s.buf.Flush()
}

// Close flushes the sink and closes the file if OpenSink created it.
func (s *Sink) Close() error {
	err := s.Flush()
	if s.owned {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
		s.owned = false
	}
	return err
}

// ColorsFor picks the color scheme for w: colors only when w is a terminal
// sink and NO_COLOR is unset.
func ColorsFor(w io.Writer, enabled bool) *ColorScheme {
	s, ok := w.(*Sink)
	if !enabled || !ok || !s.IsTerminal() || os.Getenv("NO_COLOR") != "" {
		return NoColorScheme()
	}
	return DefaultColorScheme()
}

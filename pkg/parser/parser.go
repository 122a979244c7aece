package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single log line.
const maxLineSize = 1024 * 1024

// FileSource implements LineSource for reading an activity log file.
type FileSource struct {
	path string

	file    *os.File
	scanner *bufio.Scanner
	lineNum int
	done    bool
}

// NewFileSource creates a LineSource that reads from the given file.
// The file is opened lazily on the first call to Next, or eagerly with Open.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Open opens the underlying file so that a missing or unreadable log is
// reported before any line is parsed.
func (s *FileSource) Open() error {
	if s.scanner != nil {
		return nil
	}

	f, err := os.Open(s.path) // #nosec G304 -- user-provided log path is expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", s.path, err)
	}

	s.file = f
	s.scanner = newScanner(f)
	return nil
}

// Path returns the log file path.
func (s *FileSource) Path() string {
	return s.path
}

// Next returns the next non-blank line.
// Returns io.EOF when the file has been exhausted.
func (s *FileSource) Next(ctx context.Context) (Line, error) {
	if s.done {
		return Line{}, io.EOF
	}
	if err := s.Open(); err != nil {
		return Line{}, err
	}

	line, err := nextLine(ctx, s.scanner, s.path, &s.lineNum)
	if err == io.EOF {
		s.done = true
		if cerr := s.Close(); cerr != nil {
			return Line{}, cerr
		}
	}
	return line, err
}

// Close releases resources.
func (s *FileSource) Close() error {
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

// ReaderSource implements LineSource over an arbitrary reader.
type ReaderSource struct {
	name    string
	scanner *bufio.Scanner
	lineNum int
}

// NewReaderSource creates a LineSource reading from r.
// The name is reported as the Line source.
func NewReaderSource(r io.Reader, name string) *ReaderSource {
	return &ReaderSource{
		name:    name,
		scanner: newScanner(r),
	}
}

// Next returns the next non-blank line.
func (s *ReaderSource) Next(ctx context.Context) (Line, error) {
	return nextLine(ctx, s.scanner, s.name, &s.lineNum)
}

// Path returns the name the source was created with.
func (s *ReaderSource) Path() string {
	return s.name
}

// Close is a no-op; the caller owns the reader.
func (s *ReaderSource) Close() error {
	return nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// nextLine advances scanner past blank lines, keeping lineNum in step with
// physical lines so that errors point at the right place.
func nextLine(ctx context.Context, scanner *bufio.Scanner, source string, lineNum *int) (Line, error) {
	for {
		select {
		case <-ctx.Done():
			return Line{}, ctx.Err()
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return Line{}, fmt.Errorf("reading %s: %w", source, err)
			}
			return Line{}, io.EOF
		}
		*lineNum++

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		return Line{
			Text:   text,
			Source: source,
			Num:    *lineNum,
		}, nil
	}
}

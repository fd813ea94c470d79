package serial

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// scriptedReader returns one chunk per Read. An empty chunk simulates a
// serial read timeout.
type scriptedReader struct {
	chunks []string
	err    error
}

func (s *scriptedReader) Read(p []byte) (int, error) {
	if len(s.chunks) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, io.EOF
	}
	chunk := s.chunks[0]
	n := copy(p, chunk)
	if n < len(chunk) {
		s.chunks[0] = chunk[n:]
	} else {
		s.chunks = s.chunks[1:]
	}
	return n, nil
}

func TestReadLine_SplitsLines(t *testing.T) {
	r := NewLineReader(strings.NewReader("Starting inferencing...\r\nball (0.92) [ x: 10, y: 5, width: 4, height: 4 ]\nAll boxes were sent\n"))

	expected := []string{
		"Starting inferencing...",
		"ball (0.92) [ x: 10, y: 5, width: 4, height: 4 ]",
		"All boxes were sent",
	}
	for _, want := range expected {
		line, err := r.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if line != want {
			t.Errorf("ReadLine() = %q, expected %q", line, want)
		}
	}

	if _, err := r.ReadLine(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestReadLine_TimeoutKeepsPartialLine(t *testing.T) {
	r := NewLineReader(&scriptedReader{chunks: []string{"All boxes", "", " were sent\n"}})

	if _, err := r.ReadLine(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}

	line, err := r.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "All boxes were sent" {
		t.Errorf("Expected joined line, got %q", line)
	}
}

func TestReadLine_FinalLineWithoutNewline(t *testing.T) {
	r := NewLineReader(strings.NewReader("first\nlast"))

	for _, want := range []string{"first", "last"} {
		line, err := r.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if line != want {
			t.Errorf("ReadLine() = %q, expected %q", line, want)
		}
	}
	if _, err := r.ReadLine(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestReadLine_ReaderError(t *testing.T) {
	boom := errors.New("device unplugged")
	r := NewLineReader(&scriptedReader{chunks: []string{"partial"}, err: boom})

	line, err := r.ReadLine()
	if err != nil || line != "partial" {
		t.Fatalf("Expected partial line first, got %q, %v", line, err)
	}
	if _, err := r.ReadLine(); !errors.Is(err, boom) {
		t.Errorf("Expected reader error, got %v", err)
	}
}

func TestReadLine_InvalidUTF8(t *testing.T) {
	r := NewLineReader(strings.NewReader("ab\xffc\n"))

	line, err := r.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "ab�c" {
		t.Errorf("Expected replacement character, got %q", line)
	}
}

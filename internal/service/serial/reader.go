package serial

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

// ErrTimeout is returned by ReadLine when no complete line arrived within
// the read timeout. Partial input is kept for the next call.
var ErrTimeout = errors.New("serial: read timeout")

const maxLineLength = 64 * 1024

// LineReader splits a byte stream into trimmed text lines. A Read that returns
// no bytes and no error is treated as a timeout, which is how serial ports
// with a read timeout report silence.
type LineReader struct {
	r       io.Reader
	pending []byte
	chunk   []byte
	err     error
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		r:     r,
		chunk: make([]byte, 256),
	}
}

// ReadLine returns the next line with surrounding whitespace removed. It
// returns ErrTimeout when the underlying reader times out before a newline,
// and io.EOF once the stream has ended and all lines were returned.
func (l *LineReader) ReadLine() (string, error) {
	for {
		if line, ok := l.nextLine(); ok {
			return line, nil
		}

		if l.err != nil {
			if len(l.pending) > 0 {
				line := decode(l.pending)
				l.pending = l.pending[:0]
				return line, nil
			}
			return "", l.err
		}

		n, err := l.r.Read(l.chunk)
		if n > 0 {
			l.pending = append(l.pending, l.chunk[:n]...)
		}
		if err != nil {
			l.err = err
			continue
		}
		if n == 0 {
			return "", ErrTimeout
		}

		// a device that never sends a newline must not grow the buffer forever
		if len(l.pending) > maxLineLength && bytes.IndexByte(l.pending, '\n') < 0 {
			l.pending = l.pending[:0]
		}
	}
}

// nextLine pops a complete line from the pending buffer.
func (l *LineReader) nextLine() (string, bool) {
	i := bytes.IndexByte(l.pending, '\n')
	if i < 0 {
		return "", false
	}
	line := decode(l.pending[:i])
	l.pending = append(l.pending[:0], l.pending[i+1:]...)
	return line, true
}

func decode(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "�"))
}

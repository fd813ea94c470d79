// Package replay feeds a captured telemetry file through the session loop
// as if it were arriving over the serial link.
package replay

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"puckscore/internal/service/serial"
)

// Source reads lines from a capture file, optionally pausing between them.
type Source struct {
	*serial.LineReader
	file  *os.File
	delay time.Duration
	sleep func(time.Duration)
	read  int
}

// Open opens a capture file. A positive delay is waited before every line
// but the first.
func Open(path string, delay time.Duration) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture %s: %w", path, err)
	}

	return &Source{
		LineReader: serial.NewLineReader(file),
		file:       file,
		delay:      delay,
		sleep:      time.Sleep,
	}, nil
}

// ReadLine returns the next line of the capture, or io.EOF at its end.
func (s *Source) ReadLine() (string, error) {
	if s.delay > 0 && s.read > 0 {
		s.sleep(s.delay)
	}

	line, err := s.LineReader.ReadLine()
	if err == nil {
		s.read++
	}
	return line, err
}

// Lines returns the number of lines read so far.
func (s *Source) Lines() int {
	return s.read
}

func (s *Source) Close() error {
	return s.file.Close()
}

// CountLines returns the number of lines in a capture file, counting a
// trailing line without a newline.
func CountLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open capture %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)

	count := 0
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to count lines in %s: %w", path, err)
	}
	return count, nil
}

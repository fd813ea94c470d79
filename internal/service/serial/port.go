package serial

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"puckscore/internal/config"
)

// Port is a serial device opened for line reading.
type Port struct {
	*LineReader
	name string
	port serial.Port
}

// Open opens the configured serial device (8N1) with a read timeout, so that
// ReadLine returns ErrTimeout instead of blocking while the device is silent.
func Open(cfg *config.Config) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(cfg.SerialPort, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.SerialPort, err)
	}

	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = 100 * time.Millisecond
	}
	if err := p.SetReadTimeout(timeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", cfg.SerialPort, err)
	}

	if err := p.ResetInputBuffer(); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to reset input buffer on %s: %w", cfg.SerialPort, err)
	}

	return &Port{
		LineReader: NewLineReader(p),
		name:       cfg.SerialPort,
		port:       p,
	}, nil
}

// Name returns the device path.
func (p *Port) Name() string {
	return p.name
}

// Close releases the device.
func (p *Port) Close() error {
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", p.name, err)
	}
	return nil
}

// Ports lists the serial devices present on the system.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

package transport

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud is the baud rate both processor links run at.
const DefaultBaud = 921600

// SerialConfig configures one serial port.
type SerialConfig struct {
	// Device is the port path (e.g. "/dev/ttyAMA0").
	Device string

	// Baud is the line rate. Zero selects DefaultBaud.
	Baud int

	// ReadTimeout bounds a single Read so the poll loop never stalls on a
	// quiet line. Zero selects a short default.
	ReadTimeout time.Duration
}

// OpenSerial opens a serial port for use with a channel.
func OpenSerial(cfg SerialConfig) (io.ReadWriteCloser, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("serial device path is empty")
	}
	baud := cfg.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	timeout := cfg.ReadTimeout
	if timeout == 0 {
		timeout = 20 * time.Millisecond
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	return port, nil
}

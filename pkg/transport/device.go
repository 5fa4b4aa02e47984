package transport

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/protosuit/visor-go/pkg/log"
)

// DeviceHandler receives completed lines from the companion device.
type DeviceHandler interface {
	// HandleDeviceLine processes one newline-terminated line, without
	// its terminator.
	HandleDeviceLine(line string)
}

// DeviceHandlerFunc adapts a function to the DeviceHandler interface.
type DeviceHandlerFunc func(line string)

// HandleDeviceLine calls f(line).
func (f DeviceHandlerFunc) HandleDeviceLine(line string) { f(line) }

// DeviceChannel is the newline-delimited ASCII channel to the companion
// expression-rendering microcontroller. There is no checksum on this
// short board-to-board link; framing errors manifest as unrecognized
// lines and are ignored downstream.
type DeviceChannel struct {
	rw        io.ReadWriter
	handler   DeviceHandler
	logger    log.Logger
	sessionID string

	line []byte
}

// NewDeviceChannel creates a companion channel over rw, dispatching
// completed lines to handler. Pass nil logger to disable protocol logging.
func NewDeviceChannel(rw io.ReadWriter, handler DeviceHandler, logger log.Logger) *DeviceChannel {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &DeviceChannel{
		rw:        rw,
		handler:   handler,
		logger:    logger,
		sessionID: uuid.NewString(),
		line:      make([]byte, 0, MaxLineLength),
	}
}

// SessionID returns the identifier attached to this channel's log events.
func (c *DeviceChannel) SessionID() string {
	return c.sessionID
}

// Send writes one command line to the companion, appending the newline.
func (c *DeviceChannel) Send(line string) error {
	if _, err := c.rw.Write(append([]byte(line), '\n')); err != nil {
		return fmt.Errorf("device link write: %w", err)
	}
	c.logger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  c.sessionID,
		Direction:  log.DirectionOut,
		Layer:      log.LayerDevice,
		Category:   log.CategoryMessage,
		DeviceLine: line,
	})
	return nil
}

// Consume feeds received bytes into the line accumulator and dispatches
// every completed line verbatim. Carriage returns are skipped and the
// 512-byte overflow guard applies as on the host link.
func (c *DeviceChannel) Consume(data []byte) {
	for _, b := range data {
		switch b {
		case '\r':
		case '\n':
			if len(c.line) > 0 {
				line := string(c.line)
				c.logger.Log(log.Event{
					Timestamp:  time.Now(),
					SessionID:  c.sessionID,
					Direction:  log.DirectionIn,
					Layer:      log.LayerDevice,
					Category:   log.CategoryMessage,
					DeviceLine: line,
				})
				c.handler.HandleDeviceLine(line)
			}
			c.line = c.line[:0]
		default:
			c.line = append(c.line, b)
			if len(c.line) > MaxLineLength {
				c.line = c.line[:0]
			}
		}
	}
}

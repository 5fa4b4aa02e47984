package transport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/protosuit/visor-go/pkg/log"
	"github.com/protosuit/visor-go/pkg/wire"
)

// MaxLineLength is the hard cap on an accumulated input line. A line that
// grows past the cap without a newline is discarded and accumulation
// restarts, so a noise burst cannot grow the buffer without bound.
const MaxLineLength = 512

// HostHandler receives validated host messages.
type HostHandler interface {
	// HandleHostMessage processes one decoded (topic, payload) message.
	HandleHostMessage(msg wire.Message)
}

// HostHandlerFunc adapts a function to the HostHandler interface.
type HostHandlerFunc func(msg wire.Message)

// HandleHostMessage calls f(msg).
func (f HostHandlerFunc) HandleHostMessage(msg wire.Message) { f(msg) }

// LinkChannel is the framed, checksummed channel to the host.
//
// Publish formats and writes outbound frames. Consume accepts whatever
// bytes the serial port currently has and dispatches every complete,
// valid frame to the handler. LinkChannel is not safe for concurrent
// use; the owning loop is the single caller.
type LinkChannel struct {
	rw        io.ReadWriter
	handler   HostHandler
	logger    log.Logger
	sessionID string

	line []byte
}

// NewLinkChannel creates a host link over rw, dispatching to handler.
// Pass nil logger to disable protocol logging.
func NewLinkChannel(rw io.ReadWriter, handler HostHandler, logger log.Logger) *LinkChannel {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &LinkChannel{
		rw:        rw,
		handler:   handler,
		logger:    logger,
		sessionID: uuid.NewString(),
		line:      make([]byte, 0, MaxLineLength),
	}
}

// SessionID returns the identifier attached to this channel's log events.
func (c *LinkChannel) SessionID() string {
	return c.sessionID
}

// Publish formats (topic, payload) as an outbound frame and writes it.
func (c *LinkChannel) Publish(topic, payload string) error {
	frame := wire.EncodeFrame(topic, payload)
	if _, err := c.rw.Write(frame); err != nil {
		return fmt.Errorf("host link write: %w", err)
	}
	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: c.sessionID,
		Direction: log.DirectionOut,
		Layer:     log.LayerMessage,
		Category:  log.CategoryMessage,
		Topic:     topic,
		Frame:     log.NewFrameEvent(frame),
	})
	return nil
}

// Consume feeds received bytes into the line accumulator and dispatches
// every complete valid frame. Carriage returns are skipped. The
// accumulator is always cleared after a newline, whether or not the frame
// was valid.
func (c *LinkChannel) Consume(data []byte) {
	for _, b := range data {
		switch b {
		case '\r':
			// Tolerate CRLF line endings.
		case '\n':
			c.finishLine()
		default:
			c.line = append(c.line, b)
			if len(c.line) > MaxLineLength {
				// Overflow: silent drop and reset.
				c.line = c.line[:0]
			}
		}
	}
}

// finishLine parses the accumulated line as a frame and resets the
// accumulator.
func (c *LinkChannel) finishLine() {
	defer func() { c.line = c.line[:0] }()

	if len(c.line) == 0 {
		return
	}

	msg, err := wire.ParseFrame(c.line)
	if err != nil {
		// A foreign direction marker is not addressed to us; drop silently.
		if !errors.Is(err, wire.ErrBadDirection) {
			c.logError(err)
		}
		return
	}

	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: c.sessionID,
		Direction: log.DirectionIn,
		Layer:     log.LayerMessage,
		Category:  log.CategoryMessage,
		Topic:     msg.Topic,
		Frame:     log.NewFrameEvent(c.line),
	})
	c.handler.HandleHostMessage(msg)
}

// logError records a framing or integrity failure.
func (c *LinkChannel) logError(err error) {
	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: c.sessionID,
		Direction: log.DirectionIn,
		Layer:     log.LayerFrame,
		Category:  log.CategoryError,
		Frame:     log.NewFrameEvent(c.line),
		Error: &log.ErrorEvent{
			Message: err.Error(),
			Context: "host frame parse",
		},
	})
}

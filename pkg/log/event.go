package log

import (
	"time"
)

// MaxFrameDataSize is the largest frame body stored in an event. Frames
// beyond this are truncated in the event; the cap matches the transport
// accumulation limit so in practice nothing is cut.
const MaxFrameDataSize = 512

// Event represents one protocol event captured on either link.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the channel instance that captured the event.
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow relative to the controller.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Topic is the host-link topic, when the event concerns a decoded
	// host message.
	Topic string `cbor:"6,keyasint,omitempty"`

	// DeviceLine is the companion-link line, when the event concerns the
	// device channel.
	DeviceLine string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Frame       *FrameEvent       `cbor:"8,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"9,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"10,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates data received by the controller.
	DirectionIn Direction = 0
	// DirectionOut indicates data sent by the controller.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerFrame is the host-link framing layer (raw bytes, checksums).
	LayerFrame Layer = 0
	// LayerMessage is the decoded host-link message layer.
	LayerMessage Layer = 1
	// LayerDevice is the companion device line layer.
	LayerDevice Layer = 2
	// LayerBridge is the router/dispatch layer.
	LayerBridge Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerFrame:
		return "FRAME"
	case LayerMessage:
		return "MESSAGE"
	case LayerDevice:
		return "DEVICE"
	case LayerBridge:
		return "BRIDGE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a protocol message in either direction.
	CategoryMessage Category = 0
	// CategoryState indicates a state change (liveness, animation target).
	CategoryState Category = 1
	// CategoryError indicates a dropped frame or parse failure.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame bytes at the framing layer.
type FrameEvent struct {
	// Size is the full frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// NewFrameEvent builds a FrameEvent from raw frame bytes, copying them so
// the event stays valid after the channel reuses its accumulator.
func NewFrameEvent(frame []byte) *FrameEvent {
	e := &FrameEvent{Size: len(frame)}
	data := frame
	if len(data) > MaxFrameDataSize {
		data = data[:MaxFrameDataSize]
		e.Truncated = true
	}
	e.Data = append([]byte(nil), data...)
	return e
}

// StateChangeEvent captures bridge-level state transitions.
type StateChangeEvent struct {
	// Entity names what changed (e.g. "host-liveness", "animation-target").
	Entity string `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`
}

// ErrorEvent captures dropped or malformed input at any layer.
type ErrorEvent struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being processed.
	Context string `cbor:"2,keyasint,omitempty"`
}

package wire

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Framing characters.
const (
	// MarkerFromHost is the direction marker on frames received from the host.
	MarkerFromHost = '>'

	// MarkerToHost is the direction marker on frames sent to the host.
	MarkerToHost = '<'

	// Separator divides topic from payload inside the frame body.
	Separator = '\t'

	// ChecksumDelim precedes the two checksum hex digits.
	ChecksumDelim = '*'
)

// checksumFieldLen is the delimiter plus two hex digits.
const checksumFieldLen = 3

// Framing errors.
var (
	// ErrEmptyFrame indicates a frame with no body.
	ErrEmptyFrame = errors.New("empty frame")

	// ErrBadDirection indicates a frame without the expected direction marker.
	ErrBadDirection = errors.New("missing direction marker")

	// ErrMissingChecksum indicates a frame without a parseable checksum field.
	ErrMissingChecksum = errors.New("missing checksum field")

	// ErrChecksumMismatch indicates the checksum did not match the frame body.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrMissingSeparator indicates a frame body without a topic separator.
	ErrMissingSeparator = errors.New("missing topic separator")
)

// Message is one decoded (topic, payload) unit of the host link protocol.
type Message struct {
	Topic   string
	Payload string
}

// String returns the message in topic=payload form for diagnostics.
func (m Message) String() string {
	return m.Topic + "=" + m.Payload
}

const hexDigits = "0123456789ABCDEF"

// EncodeFrame formats an outbound (visor to host) frame, including the
// trailing newline. The checksum covers topic, separator and payload only.
func EncodeFrame(topic, payload string) []byte {
	return encodeFrame(MarkerToHost, topic, payload)
}

// EncodeHostFrame formats a frame as the host would send it. Used by
// host-side tooling.
func EncodeHostFrame(topic, payload string) []byte {
	return encodeFrame(MarkerFromHost, topic, payload)
}

func encodeFrame(marker byte, topic, payload string) []byte {
	frame := make([]byte, 0, 1+len(topic)+1+len(payload)+checksumFieldLen+1)
	frame = append(frame, marker)
	frame = append(frame, topic...)
	frame = append(frame, Separator)
	frame = append(frame, payload...)
	crc := Checksum(frame[1:])
	frame = append(frame, ChecksumDelim, hexDigits[crc>>4], hexDigits[crc&0x0F], '\n')
	return frame
}

// ParseFrame decodes an inbound host frame. The line must be a complete
// frame without its newline terminator.
//
// The checksum field is located by the last ChecksumDelim in the body and
// must consist of exactly two hex digits; the first Separator then splits
// the verified body into topic and payload.
func ParseFrame(line []byte) (Message, error) {
	return parseFrame(MarkerFromHost, line)
}

// ParseVisorFrame decodes a frame sent by the visor, as seen on the host
// side of the link.
func ParseVisorFrame(line []byte) (Message, error) {
	return parseFrame(MarkerToHost, line)
}

func parseFrame(marker byte, line []byte) (Message, error) {
	if len(line) == 0 {
		return Message{}, ErrEmptyFrame
	}
	if line[0] != marker {
		return Message{}, ErrBadDirection
	}
	body := line[1:]

	delim := bytes.LastIndexByte(body, ChecksumDelim)
	if delim <= 0 || len(body)-delim != checksumFieldLen {
		return Message{}, ErrMissingChecksum
	}

	want, err := strconv.ParseUint(string(body[delim+1:]), 16, 8)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %s", ErrMissingChecksum, body[delim+1:])
	}

	data := body[:delim]
	if got := Checksum(data); got != uint8(want) {
		return Message{}, fmt.Errorf("%w: got %02X want %02X", ErrChecksumMismatch, got, uint8(want))
	}

	sep := bytes.IndexByte(data, Separator)
	if sep <= 0 {
		return Message{}, ErrMissingSeparator
	}

	return Message{
		Topic:   string(data[:sep]),
		Payload: string(data[sep+1:]),
	}, nil
}

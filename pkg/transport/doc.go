// Package transport provides the two serial channels of the visor
// controller.
//
// The protocol stack:
//
//	┌────────────────────────────────┐
//	│   (topic, payload) messages    │   host link only
//	├────────────────────────────────┤
//	│   newline-delimited frames     │
//	├────────────────────────────────┤
//	│      raw serial byte stream    │
//	└────────────────────────────────┘
//
// # Host Link
//
// LinkChannel carries wire frames to and from the host: CRC-checked on
// input, formatted by pkg/wire on output. Input is accumulated one byte
// at a time so the channel never blocks; a 512-byte cap bounds memory and
// recovers from a line that never terminates.
//
// # Companion Device Link
//
// DeviceChannel carries plain newline-terminated ASCII lines to the
// expression-rendering companion. No checksum; the same 512-byte cap.
//
// Both channels are driven from a single loop and perform no internal
// locking or buffering beyond the line accumulator.
package transport

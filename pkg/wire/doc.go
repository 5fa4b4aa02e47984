// Package wire defines the host-link frame format for the visor protocol.
//
// The host link carries discrete (topic, payload) messages over a raw
// serial byte stream. Each frame is a single text line:
//
//	<DIR><TOPIC>\t<PAYLOAD>*<HH>\n
//
// DIR is a one-character direction marker ('>' host to visor, '<' visor
// to host). HH is the CRC-8/SMBUS checksum of TOPIC\tPAYLOAD as two
// uppercase hex digits. The direction marker and the checksum field are
// not covered by the checksum.
//
// # Checksum Delimiter
//
// The checksum field is located by scanning for the LAST '*' in the
// frame body. Payloads may legitimately contain '*', so a first-occurrence
// scan would mis-split such frames. This rule is load-bearing and must not
// be changed.
//
// # Integrity
//
// The CRC defends against line noise on a long unshielded serial run.
// There is no retransmission: a frame that fails framing or checksum
// validation is dropped and the sender is expected to resend if needed.
package wire

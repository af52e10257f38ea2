// Package ws implements RFC 6455 WebSocket framing and handshake (spec
// components C7/C8): frame header parse/build, masking, fragmentation
// and reassembly, control frames, and the permessage-deflate extension —
// grounded on the frame-codec shape common across the retrieved
// standalone WebSocket examples (e.g. frame.go-style bit-packed headers)
// and adapted to the wire details spec.md §4.7 specifies.
package ws

import (
	"encoding/binary"
	"fmt"

	"github.com/mdxfeed/rwfgo/rwf"
)

// Opcode identifies a frame's payload interpretation (spec.md §4.7).
type Opcode uint8

const (
	OpcodeContinuation Opcode = 0x0
	OpcodeText         Opcode = 0x1
	OpcodeBinary       Opcode = 0x2
	OpcodeClose        Opcode = 0x8
	OpcodePing         Opcode = 0x9
	OpcodePong         Opcode = 0xA
)

func (o Opcode) isControl() bool { return o >= OpcodeClose }

func (o Opcode) String() string {
	switch o {
	case OpcodeContinuation:
		return "continuation"
	case OpcodeText:
		return "text"
	case OpcodeBinary:
		return "binary"
	case OpcodeClose:
		return "close"
	case OpcodePing:
		return "ping"
	case OpcodePong:
		return "pong"
	default:
		return fmt.Sprintf("opcode(%#x)", uint8(o))
	}
}

// Close codes this module produces or recognizes (RFC 6455 §7.4).
const (
	CloseNormal           = 1000
	CloseProtocolError    = 1002
	CloseUnsupportedData  = 1003
	CloseMessageTooBig    = 1009
	CloseInternalError    = 1011
)

const maxControlPayload = 125

// FrameHeader is one parsed frame header (everything before the masking
// key and payload, spec.md §4.7's layout diagram).
type FrameHeader struct {
	Fin           bool
	RSV1          bool // compressed, when permessage-deflate is negotiated
	RSV2, RSV3    bool
	Opcode        Opcode
	Masked        bool
	MaskKey       [4]byte
	PayloadLength int
}

// ParseFrameHeader reads a frame header (without payload) from buf,
// returning the header, bytes consumed, and a Ret (RetIncompleteData if
// buf doesn't yet hold a full header).
func ParseFrameHeader(buf []byte) (FrameHeader, int, rwf.Ret) {
	var h FrameHeader
	if len(buf) < 2 {
		return h, 0, rwf.RetIncompleteData
	}
	b0, b1 := buf[0], buf[1]
	h.Fin = b0&0x80 != 0
	h.RSV1 = b0&0x40 != 0
	h.RSV2 = b0&0x20 != 0
	h.RSV3 = b0&0x10 != 0
	h.Opcode = Opcode(b0 & 0x0F)
	h.Masked = b1&0x80 != 0
	lenField := b1 & 0x7F

	off := 2
	switch {
	case lenField <= 125:
		h.PayloadLength = int(lenField)
	case lenField == 126:
		if len(buf) < off+2 {
			return h, 0, rwf.RetIncompleteData
		}
		h.PayloadLength = int(binary.BigEndian.Uint16(buf[off : off+2]))
		off += 2
	default: // 127
		if len(buf) < off+8 {
			return h, 0, rwf.RetIncompleteData
		}
		n := binary.BigEndian.Uint64(buf[off : off+8])
		h.PayloadLength = int(n)
		off += 8
	}

	if h.Masked {
		if len(buf) < off+4 {
			return h, 0, rwf.RetIncompleteData
		}
		copy(h.MaskKey[:], buf[off:off+4])
		off += 4
	}

	if h.Opcode.isControl() {
		if h.PayloadLength > maxControlPayload || !h.Fin {
			return h, 0, rwf.RetUnsupportedDataType
		}
	}
	return h, off, rwf.RetSuccess
}

// MaskUnmask XORs payload with key in place (RFC 6455 §5.3); applying it
// twice restores the original bytes.
func MaskUnmask(payload []byte, key [4]byte) {
	for i := range payload {
		payload[i] ^= key[i&3]
	}
}

// BuildFrameHeader writes a frame header for payloadLen bytes of opcode
// op; when masked, key must be a freshly generated nonce (client role).
func BuildFrameHeader(op Opcode, fin, rsv1, masked bool, key [4]byte, payloadLen int) []byte {
	b0 := byte(op)
	if fin {
		b0 |= 0x80
	}
	if rsv1 {
		b0 |= 0x40
	}
	var out []byte
	switch {
	case payloadLen <= 125:
		out = []byte{b0, byte(payloadLen)}
	case payloadLen <= 0xFFFF:
		out = make([]byte, 4)
		out[0], out[1] = b0, 126
		binary.BigEndian.PutUint16(out[2:], uint16(payloadLen))
	default:
		out = make([]byte, 10)
		out[0], out[1] = b0, 127
		binary.BigEndian.PutUint64(out[2:], uint64(payloadLen))
	}
	if masked {
		out[1] |= 0x80
		out = append(out, key[:]...)
	}
	return out
}

// Reassembler accumulates a fragmented message's payload across CONT
// frames. The first data frame records DataType and Compressed; CONT
// frames must not repeat RSV1 (spec.md §4.7).
type Reassembler struct {
	DataType   Opcode
	Compressed bool
	buf        []byte
	maxPayload int
	active     bool
}

func NewReassembler(maxPayload int) *Reassembler {
	return &Reassembler{maxPayload: maxPayload}
}

// Feed appends one data or continuation frame's payload; isFinal reports
// whether the message is now complete, and ret is non-success on a
// protocol violation (CONT with no start, RSV1 repeated, overflow).
func (r *Reassembler) Feed(h FrameHeader, payload []byte) (isFinal bool, ret rwf.Ret) {
	if h.Opcode != OpcodeContinuation {
		if r.active {
			return false, rwf.RetUnsupportedDataType
		}
		r.active = true
		r.DataType = h.Opcode
		r.Compressed = h.RSV1
		r.buf = r.buf[:0]
	} else {
		if !r.active {
			return false, rwf.RetUnsupportedDataType
		}
		if h.RSV1 {
			return false, rwf.RetUnsupportedDataType
		}
	}
	if r.maxPayload > 0 && len(r.buf)+len(payload) > r.maxPayload {
		r.active = false
		return false, rwf.RetBufferTooSmall
	}
	r.buf = append(r.buf, payload...)
	if h.Fin {
		r.active = false
		return true, rwf.RetSuccess
	}
	return false, rwf.RetSuccess
}

func (r *Reassembler) Bytes() []byte { return r.buf }

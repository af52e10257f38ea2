package ws

import (
	"encoding/binary"

	"github.com/mdxfeed/rwfgo/rwf"
)

// Role distinguishes which side of the connection a Session represents;
// only the client role masks outbound frames and must tolerate
// unsolicited server behavior differently (spec.md §3).
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

// Session holds one WebSocket connection's negotiated state: role,
// sub-protocol, compression, reassembly, and handshake key material
// (spec.md §3 "WebSocket session"). It is the integration point between
// C7 framing, C8 handshake results, and C9's buffer/queue write path —
// transport.Channel holds one per connection once attached via
// Channel.SetSession.
type Session struct {
	Role        Role
	SubProtocol SubProtocol
	Ext         ExtensionParams

	deflater *Deflater
	inflater *Inflater

	reassembler *Reassembler
	maxPayload  int

	Host, Origin, UserAgent string
	Cookies                 []string
	ServerPrefs             []SubProtocol

	KeyNonce, KeyAccept, KeyRecv string

	Upgrade, ConnUpgrade bool
	SentClose, RecvClose bool
}

// NewSession builds a Session for a negotiated handshake: role, the
// accepted sub-protocol, the negotiated extension parameters, and the
// reassembly buffer's maxPayload (spec.md §4.7 "accumulates payloads
// into a dedicated buffer up to a configurable maxPayload").
func NewSession(role Role, proto SubProtocol, ext ExtensionParams, maxPayload int) *Session {
	s := &Session{
		Role:        role,
		SubProtocol: proto,
		Ext:         ext,
		reassembler: NewReassembler(maxPayload),
		maxPayload:  maxPayload,
	}
	if ext.Deflate {
		ownReset, peerReset := ext.ServerNoContextTakeover, ext.ClientNoContextTakeover
		if role == RoleClient {
			ownReset, peerReset = ext.ClientNoContextTakeover, ext.ServerNoContextTakeover
		}
		s.deflater = NewDeflater(ownReset)
		s.inflater = NewInflater(peerReset)
	}
	return s
}

// PrepareWrite builds the frame header for one complete, unfragmented
// message of the given opcode over payload, masking payload in place
// when this session is client-role (RFC 6455 §5.3: only clients mask).
// It is the write-side half of the C7/C9 integration: transport.Channel
// calls this before Buffer.Prepend instead of passing a nil header.
func (s *Session) PrepareWrite(op Opcode, payload []byte) []byte {
	masked := s.Role == RoleClient
	var key [4]byte
	if masked {
		key = newMaskKey()
		MaskUnmask(payload, key)
	}
	return BuildFrameHeader(op, true, false, masked, key, len(payload))
}

// IngestResult reports the outcome of feeding one raw inbound frame to
// Session.Ingest.
type IngestResult struct {
	Op      Opcode // valid when Final
	Payload []byte // reassembled application payload, or a control frame's payload
	Final   bool   // a complete message (or control frame) is ready
	Reply   []byte // wire bytes the caller must write back verbatim, nil if none
}

// Ingest parses one already-fully-buffered raw frame (header plus
// payload) against this session's masking, reassembly, and compression
// state. A client→server frame with MASK=0 is a protocol error that
// terminates the session: Ingest returns a Close(1002) Reply and
// RetFailure (spec.md §4.7 "Any frame from client→server without MASK is
// a protocol error and terminates the session", §8 scenario 5).
func (s *Session) Ingest(raw []byte) (res IngestResult, ret rwf.Ret) {
	h, n, ret := ParseFrameHeader(raw)
	if ret != rwf.RetSuccess {
		return IngestResult{}, ret
	}
	if len(raw) < n+h.PayloadLength {
		return IngestResult{}, rwf.RetIncompleteData
	}
	payload := append([]byte(nil), raw[n:n+h.PayloadLength]...)

	if s.Role == RoleServer && !h.Masked {
		s.SentClose = true
		return IngestResult{Reply: s.buildClose(CloseProtocolError, "unmasked client frame")}, rwf.RetFailure
	}
	if h.Masked {
		MaskUnmask(payload, h.MaskKey)
	}

	switch h.Opcode {
	case OpcodePing:
		return IngestResult{Op: OpcodePing, Reply: s.buildControl(OpcodePong, payload)}, rwf.RetReadPing
	case OpcodePong:
		return IngestResult{Op: OpcodePong}, rwf.RetReadPing
	case OpcodeClose:
		var reply []byte
		if !s.SentClose {
			reply = s.buildClose(CloseNormal, "")
			s.SentClose = true
		}
		s.RecvClose = true
		return IngestResult{Op: OpcodeClose, Payload: payload, Final: true, Reply: reply}, rwf.RetFailure
	}

	final, ret := s.reassembler.Feed(h, payload)
	if ret != rwf.RetSuccess {
		return IngestResult{}, ret
	}
	if !final {
		return IngestResult{}, rwf.RetSuccess
	}

	out := append([]byte(nil), s.reassembler.Bytes()...)
	if s.reassembler.Compressed {
		if s.inflater == nil {
			return IngestResult{}, rwf.RetUnsupportedDataType
		}
		decoded, err := s.inflater.Decompress(out, s.maxPayload)
		if err != nil {
			return IngestResult{}, rwf.RetBufferTooSmall
		}
		out = decoded
	}
	return IngestResult{Op: s.reassembler.DataType, Payload: out, Final: true}, rwf.RetSuccess
}

func (s *Session) buildControl(op Opcode, payload []byte) []byte {
	masked := s.Role == RoleClient
	body := append([]byte(nil), payload...)
	var key [4]byte
	if masked {
		key = newMaskKey()
		MaskUnmask(body, key)
	}
	hdr := BuildFrameHeader(op, true, false, masked, key, len(body))
	return append(hdr, body...)
}

func (s *Session) buildClose(code int, reason string) []byte {
	payload := make([]byte, 2+len(reason))
	binary.BigEndian.PutUint16(payload, uint16(code))
	copy(payload[2:], reason)
	return s.buildControl(OpcodeClose, payload)
}

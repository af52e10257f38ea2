package ws

import (
	"bytes"
	"testing"

	"github.com/mdxfeed/rwfgo/rwf"
)

func TestFrameHeaderRoundTripUnmasked(t *testing.T) {
	payload := []byte("hello, rwf")
	hdr := BuildFrameHeader(OpcodeBinary, true, false, false, [4]byte{}, len(payload))
	wire := append(append([]byte(nil), hdr...), payload...)

	got, n, ret := ParseFrameHeader(wire)
	if ret != rwf.RetSuccess {
		t.Fatalf("parse: %v", ret)
	}
	if !got.Fin || got.Opcode != OpcodeBinary || got.Masked {
		t.Fatalf("header mismatch: %+v", got)
	}
	if got.PayloadLength != len(payload) {
		t.Fatalf("length mismatch: got %d want %d", got.PayloadLength, len(payload))
	}
	if !bytes.Equal(wire[n:n+got.PayloadLength], payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestFrameHeaderMaskedRoundTrip(t *testing.T) {
	payload := []byte("masked payload")
	key := [4]byte{1, 2, 3, 4}
	masked := append([]byte(nil), payload...)
	MaskUnmask(masked, key)

	hdr := BuildFrameHeader(OpcodeText, true, false, true, key, len(payload))
	wire := append(append([]byte(nil), hdr...), masked...)

	got, n, ret := ParseFrameHeader(wire)
	if ret != rwf.RetSuccess {
		t.Fatalf("parse: %v", ret)
	}
	if !got.Masked || got.MaskKey != key {
		t.Fatalf("mask key mismatch: %+v", got)
	}
	unmasked := append([]byte(nil), wire[n:n+got.PayloadLength]...)
	MaskUnmask(unmasked, got.MaskKey)
	if !bytes.Equal(unmasked, payload) {
		t.Fatalf("unmasked payload mismatch: %q != %q", unmasked, payload)
	}
}

func TestFrameHeaderExtendedLength16(t *testing.T) {
	payload := make([]byte, 300)
	hdr := BuildFrameHeader(OpcodeBinary, true, false, false, [4]byte{}, len(payload))
	if len(hdr) != 4 {
		t.Fatalf("expected 4-byte header for 16-bit length, got %d", len(hdr))
	}
	got, _, ret := ParseFrameHeader(append(hdr, payload...))
	if ret != rwf.RetSuccess || got.PayloadLength != len(payload) {
		t.Fatalf("got %+v ret %v", got, ret)
	}
}

func TestFrameHeaderIncompleteData(t *testing.T) {
	hdr := BuildFrameHeader(OpcodeBinary, true, false, false, [4]byte{}, 300)
	_, _, ret := ParseFrameHeader(hdr[:2])
	if ret != rwf.RetIncompleteData {
		t.Fatalf("expected RetIncompleteData, got %v", ret)
	}
}

func TestFrameHeaderRejectsFragmentedControlFrame(t *testing.T) {
	hdr := BuildFrameHeader(OpcodeClose, false /* not fin */, false, false, [4]byte{}, 0)
	_, _, ret := ParseFrameHeader(hdr)
	if ret != rwf.RetUnsupportedDataType {
		t.Fatalf("expected rejection of fragmented control frame, got %v", ret)
	}
}

func TestReassemblerAcrossContinuation(t *testing.T) {
	r := NewReassembler(0)
	start := FrameHeader{Fin: false, Opcode: OpcodeBinary}
	cont := FrameHeader{Fin: true, Opcode: OpcodeContinuation}

	if final, ret := r.Feed(start, []byte("abc")); final || ret != rwf.RetSuccess {
		t.Fatalf("first frame: final=%v ret=%v", final, ret)
	}
	final, ret := r.Feed(cont, []byte("def"))
	if ret != rwf.RetSuccess {
		t.Fatalf("continuation: %v", ret)
	}
	if !final {
		t.Fatalf("expected final=true on FIN continuation")
	}
	if string(r.Bytes()) != "abcdef" {
		t.Fatalf("reassembled = %q", r.Bytes())
	}
}

func TestReassemblerRejectsContinuationWithoutStart(t *testing.T) {
	r := NewReassembler(0)
	_, ret := r.Feed(FrameHeader{Fin: true, Opcode: OpcodeContinuation}, []byte("x"))
	if ret != rwf.RetUnsupportedDataType {
		t.Fatalf("expected rejection, got %v", ret)
	}
}

func TestReassemblerEnforcesMaxPayload(t *testing.T) {
	r := NewReassembler(4)
	start := FrameHeader{Fin: false, Opcode: OpcodeBinary}
	if _, ret := r.Feed(start, []byte("abc")); ret != rwf.RetSuccess {
		t.Fatalf("first frame: %v", ret)
	}
	_, ret := r.Feed(FrameHeader{Fin: true, Opcode: OpcodeContinuation}, []byte("de"))
	if ret != rwf.RetBufferTooSmall {
		t.Fatalf("expected overflow rejection, got %v", ret)
	}
}

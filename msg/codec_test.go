package msg

import (
	"testing"

	"github.com/mdxfeed/rwfgo/rwf"
)

func newIters(size int) (*rwf.EncodeIterator, *rwf.DecodeIterator, []byte) {
	buf := make([]byte, size)
	eit := &rwf.EncodeIterator{}
	eit.SetBuffer(rwf.NewBuffer(buf))
	eit.SetVersion(rwf.MajorVersion, rwf.MinorVersion)
	return eit, &rwf.DecodeIterator{}, buf
}

func TestEncodeDecodeRequestRoundTrip(t *testing.T) {
	m := &Msg{
		Header: Header{
			MsgClass:      ClassRequest,
			StreamID:      5,
			DomainType:    6,
			ContainerType: rwf.DataTypeNoData,
			Key: &Key{
				Flags:    KeyHasServiceID | KeyHasName,
				ServiceID: 1,
				Name:     []byte("TRI.N"),
			},
		},
		RequestFlags: ReqStreaming | ReqHasQos,
		Qos:          rwf.Qos{Timeliness: rwf.TimelinessRealTime, Rate: rwf.RateTickByTick},
	}
	eit, dit, buf := newIters(128)
	if ret := EncodeMsg(eit, m, 128); ret != rwf.RetSuccess {
		t.Fatalf("encode: %v", ret)
	}
	dit.SetBuffer(rwf.NewBuffer(buf[:eit.GetEncodedLength()]))
	got, ret := DecodeMsg(dit)
	if ret != rwf.RetSuccess {
		t.Fatalf("decode: %v", ret)
	}
	if got.Header.MsgClass != ClassRequest || got.Header.StreamID != 5 || got.Header.DomainType != 6 {
		t.Fatalf("header mismatch: %+v", got.Header)
	}
	if !got.RequestFlags.Has(ReqStreaming) || !got.RequestFlags.Has(ReqHasQos) {
		t.Fatalf("request flags mismatch: %v", got.RequestFlags)
	}
	if got.Qos.Timeliness != rwf.TimelinessRealTime {
		t.Fatalf("qos mismatch: %+v", got.Qos)
	}
	if got.Header.Key == nil || string(got.Header.Key.Name) != "TRI.N" {
		t.Fatalf("key mismatch: %+v", got.Header.Key)
	}
}

func TestEncodeDecodeRefreshState(t *testing.T) {
	m := &Msg{
		Header: Header{MsgClass: ClassRefresh, StreamID: 7, ContainerType: rwf.DataTypeNoData},
		State:  rwf.State{StreamState: rwf.StreamOpen, DataState: rwf.DataOK, Text: "all good"},
	}
	eit, dit, buf := newIters(128)
	if ret := EncodeMsg(eit, m, 128); ret != rwf.RetSuccess {
		t.Fatalf("encode: %v", ret)
	}
	dit.SetBuffer(rwf.NewBuffer(buf[:eit.GetEncodedLength()]))
	got, ret := DecodeMsg(dit)
	if ret != rwf.RetSuccess {
		t.Fatalf("decode: %v", ret)
	}
	if got.State.StreamState != rwf.StreamOpen || got.State.DataState != rwf.DataOK {
		t.Fatalf("state mismatch: %+v", got.State)
	}
	if got.State.Text != "all good" {
		t.Fatalf("state text mismatch: %q", got.State.Text)
	}
}

func TestEncodeMsgCompleteFalseDiscardsHeader(t *testing.T) {
	m := &Msg{Header: Header{MsgClass: ClassRefresh, StreamID: 9, ContainerType: rwf.DataTypeNoData}}
	eit, _, _ := newIters(128)
	before := eit.GetEncodedLength()

	bodyStart, ret := EncodeMsgInit(eit, m, 128)
	if ret != rwf.RetSuccess {
		t.Fatalf("init: %v", ret)
	}
	if eit.GetEncodedLength() == before {
		t.Fatalf("expected header bytes written before Complete")
	}
	if ret := eit.WriteRaw([]byte{0xAA, 0xBB, 0xCC}); ret != rwf.RetSuccess {
		t.Fatalf("write payload: %v", ret)
	}
	if ret := EncodeMsgComplete(eit, bodyStart, false); ret != rwf.RetSuccess {
		t.Fatalf("complete(false): %v", ret)
	}
	if got := eit.GetEncodedLength(); got != before {
		t.Fatalf("EncodeMsgComplete(false) must discard everything since Init: got len %d, want %d", got, before)
	}
}

func TestEncodeMsgKeyAttribCompleteFalseLeavesHeaderIntact(t *testing.T) {
	m := &Msg{
		Header: Header{
			MsgClass:      ClassRequest,
			StreamID:      3,
			ContainerType: rwf.DataTypeNoData,
			Key: &Key{
				Flags: KeyHasName | KeyHasAttrib,
				Name:  []byte("IBM.N"),
				AttribContainerType: rwf.DataTypeElementList,
			},
		},
	}
	eit, _, _ := newIters(128)

	bodyStart, ret := EncodeMsgInit(eit, m, 128)
	if ret != rwf.RetEncodeMsgKeyOpaque {
		t.Fatalf("expected RetEncodeMsgKeyOpaque, got %v", ret)
	}
	headerLen := eit.GetEncodedLength()

	attribStart := eit.GetEncodedLength()
	if ret := eit.WriteRaw([]byte{0x01, 0x02, 0x03, 0x04}); ret != rwf.RetSuccess {
		t.Fatalf("write attrib: %v", ret)
	}
	if ret := EncodeMsgKeyAttribComplete(eit, attribStart, false); ret != rwf.RetSuccess {
		t.Fatalf("attrib complete(false): %v", ret)
	}
	if got := eit.GetEncodedLength(); got != headerLen {
		t.Fatalf("EncodeMsgKeyAttribComplete(false) must discard only the attrib bytes: got len %d, want %d", got, headerLen)
	}

	// The header EncodeMsgInit already committed must still be there for
	// EncodeMsgComplete to close out normally.
	if ret := eit.WriteRaw([]byte{0x05, 0x06}); ret != rwf.RetSuccess {
		t.Fatalf("write replacement attrib: %v", ret)
	}
	if ret := EncodeMsgComplete(eit, bodyStart, true); ret != rwf.RetSuccess {
		t.Fatalf("complete(true): %v", ret)
	}
	if eit.GetEncodedLength() <= headerLen {
		t.Fatalf("expected replacement attrib bytes retained after Complete(true)")
	}
}

func TestStreamAdvanceLifecycle(t *testing.T) {
	s := &Stream{ID: 1, Phase: StreamIdle}
	if ret := s.Advance(&Msg{Header: Header{MsgClass: ClassRequest}}); ret != rwf.RetSuccess {
		t.Fatalf("request from idle: %v", ret)
	}
	if s.Phase != StreamPending {
		t.Fatalf("expected Pending, got %v", s.Phase)
	}
	if ret := s.Advance(&Msg{Header: Header{MsgClass: ClassRefresh}}); ret != rwf.RetSuccess {
		t.Fatalf("refresh: %v", ret)
	}
	if s.Phase != StreamOpenPhase {
		t.Fatalf("expected Open, got %v", s.Phase)
	}
	if ret := s.Advance(&Msg{Header: Header{MsgClass: ClassClose}}); ret != rwf.RetSuccess {
		t.Fatalf("close: %v", ret)
	}
	if s.Phase != StreamClosedPhase {
		t.Fatalf("expected Closed, got %v", s.Phase)
	}
	if ret := s.Advance(&Msg{Header: Header{MsgClass: ClassUpdate}}); ret != rwf.RetInvalidArgument {
		t.Fatalf("expected RetInvalidArgument post-close, got %v", ret)
	}
}

func TestStreamClosedRecoverLoopsBack(t *testing.T) {
	s := &Stream{ID: 2, Phase: StreamOpenPhase}
	ret := s.Advance(&Msg{Header: Header{MsgClass: ClassStatus}, State: rwf.State{StreamState: rwf.StreamClosedRecover}})
	if ret != rwf.RetSuccess {
		t.Fatalf("status: %v", ret)
	}
	if s.Phase != StreamPending {
		t.Fatalf("expected Pending after ClosedRecover, got %v", s.Phase)
	}
}

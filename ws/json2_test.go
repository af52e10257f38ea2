package ws

import "testing"

func TestProbeJSON2(t *testing.T) {
	id, typ, ok := ProbeJSON2([]byte(`{"ID":42,"Type":"Refresh"}`))
	if !ok || id != 42 || typ != "Refresh" {
		t.Fatalf("ProbeJSON2 = id=%d type=%q ok=%v", id, typ, ok)
	}
}

func TestProbeJSON2RejectsNonEnvelope(t *testing.T) {
	if _, _, ok := ProbeJSON2([]byte(`{"foo":"bar"}`)); ok {
		t.Fatalf("expected ok=false without a Type field")
	}
	if _, _, ok := ProbeJSON2([]byte(`not json`)); ok {
		t.Fatalf("expected ok=false for invalid JSON")
	}
}

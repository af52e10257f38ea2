package transport

import "testing"

func TestPoolGetUsesGuaranteedAllotmentFirst(t *testing.T) {
	p := NewPool(2)
	p.RegisterChannel(1)

	b1 := p.Get(1, 1024)
	if b1.tier != tierGuaranteed {
		t.Fatalf("first buffer should be guaranteed, got %v", b1.tier)
	}
	b2 := p.Get(1, 1024)
	if b2.tier != tierGuaranteed {
		t.Fatalf("second buffer should still be guaranteed, got %v", b2.tier)
	}
	b3 := p.Get(1, 1024)
	if b3.tier != tierOverflow {
		t.Fatalf("third buffer should fall to overflow once guaranteed is exhausted, got %v", b3.tier)
	}
}

func TestPoolGetFallsBackToHeapForOversizePayload(t *testing.T) {
	p := NewPool(4)
	p.RegisterChannel(1)
	b := p.Get(1, 2*sizeClasses[len(sizeClasses)-1])
	if b.tier != tierHeap {
		t.Fatalf("expected heap tier for an oversize payload, got %v", b.tier)
	}
	if cap(b.raw) < 2*sizeClasses[len(sizeClasses)-1]+MaxProtocolHdr {
		t.Fatalf("heap buffer too small: cap=%d", cap(b.raw))
	}
}

func TestBufferDataReservesHeaderSpace(t *testing.T) {
	p := NewPool(1)
	p.RegisterChannel(1)
	b := p.Get(1, 100)
	if len(b.HdrSpace()) != MaxProtocolHdr {
		t.Fatalf("HdrSpace length = %d, want %d", len(b.HdrSpace()), MaxProtocolHdr)
	}
	copy(b.Data(), []byte("payload"))
	if string(b.Data()[:7]) != "payload" {
		t.Fatalf("Data region not writable as expected")
	}
}

func TestBufferPrependPrefixesHeaderImmediatelyBeforeData(t *testing.T) {
	p := NewPool(1)
	p.RegisterChannel(1)
	b := p.Get(1, 100)
	copy(b.Data(), []byte("hello"))
	hdr := []byte{0xA1, 0xA2}
	span := b.Prepend(hdr, 5)
	if len(span) != 7 || string(span[:2]) != "\xa1\xa2" || string(span[2:7]) != "hello" {
		t.Fatalf("Prepend span = %q", span)
	}
}

func TestPoolGetReturnsUsableBufferAfterUnregisterChannel(t *testing.T) {
	p := NewPool(2)
	p.RegisterChannel(1)
	p.UnregisterChannel(1)
	// A channel with no guaranteed allotment still gets a buffer, just
	// from the overflow tier rather than its (now-absent) guarantee.
	b := p.Get(1, 100)
	if b.tier != tierOverflow {
		t.Fatalf("expected overflow tier after unregister, got %v", b.tier)
	}
}

func TestBufferFreeOnHeapTierIsANoop(t *testing.T) {
	p := NewPool(1)
	p.RegisterChannel(1)
	b := p.Get(1, 2*sizeClasses[len(sizeClasses)-1])
	if b.tier != tierHeap {
		t.Fatalf("expected heap tier, got %v", b.tier)
	}
	// Must not panic even though a heap buffer has no slab to return to.
	b.Free()
}

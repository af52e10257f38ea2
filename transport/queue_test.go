package transport

import "testing"

func mkBuffer(prio Priority, payload string) *Buffer {
	raw := make([]byte, MaxProtocolHdr+len(payload))
	copy(raw[MaxProtocolHdr:], payload)
	return &Buffer{raw: raw, dataOff: MaxProtocolHdr, n: len(payload), Priority: prio}
}

func TestWriteQueuesNextFollowsFlushRatio(t *testing.T) {
	var w writeQueues
	w.push(mkBuffer(PriorityHigh, "h1"))
	w.push(mkBuffer(PriorityMedium, "m1"))
	w.push(mkBuffer(PriorityLow, "l1"))
	w.push(mkBuffer(PriorityHigh, "h2"))
	w.push(mkBuffer(PriorityMedium, "m2"))

	var order []Priority
	for {
		b := w.next()
		if b == nil {
			break
		}
		order = append(order, b.Priority)
	}
	// flushRatio is {High,Medium,High,Low,High,Medium}; with only 5
	// buffers queued (2 high, 2 medium, 1 low), the 5th slot's High is
	// skipped (already drained) and the walk falls through to the next
	// slot's Medium.
	want := []Priority{PriorityHigh, PriorityMedium, PriorityHigh, PriorityLow, PriorityMedium}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %v, want %v (full: %v)", i, order[i], want[i], order)
		}
	}
}

func TestWriteQueuesNextSkipsEmptyPriorities(t *testing.T) {
	var w writeQueues
	w.push(mkBuffer(PriorityLow, "only-low"))
	b := w.next()
	if b == nil || b.Priority != PriorityLow {
		t.Fatalf("expected to find the sole low-priority buffer, got %v", b)
	}
	if w.next() != nil {
		t.Fatalf("expected nil once all queues are drained")
	}
}

func TestWriteQueuesEmpty(t *testing.T) {
	var w writeQueues
	if !w.empty() {
		t.Fatalf("fresh writeQueues should be empty")
	}
	w.push(mkBuffer(PriorityHigh, "x"))
	if w.empty() {
		t.Fatalf("writeQueues with a pushed buffer should not be empty")
	}
}

func TestDrainCoalescedMergesAdjacentSpans(t *testing.T) {
	raw := make([]byte, MaxProtocolHdr+10)
	copy(raw[MaxProtocolHdr:], "abcdefghij")
	a := &Buffer{raw: raw, dataOff: MaxProtocolHdr, n: 5, Priority: PriorityHigh}
	b := &Buffer{raw: raw, dataOff: MaxProtocolHdr + 5, n: 5, Priority: PriorityHigh}
	// a covers raw[MaxProtocolHdr:MaxProtocolHdr+5] ("abcde"); b's data
	// region starts exactly where a's ends, so they share one backing
	// array and should coalesce into a single write span.
	var w writeQueues
	w.push(a)
	w.push(b)

	spans := w.drainCoalesced(nil)
	if len(spans) != 1 {
		t.Fatalf("expected adjacent spans to coalesce into 1, got %d: %v", len(spans), spans)
	}
	if string(spans[0]) != "abcdefghij" {
		t.Fatalf("coalesced span = %q", spans[0])
	}
}

func TestDrainCoalescedKeepsNonAdjacentSpansSeparate(t *testing.T) {
	a := mkBuffer(PriorityHigh, "aaa")
	b := mkBuffer(PriorityHigh, "bbb") // distinct backing array
	var w writeQueues
	w.push(a)
	w.push(b)
	spans := w.drainCoalesced(nil)
	if len(spans) != 2 {
		t.Fatalf("expected 2 separate spans for unrelated backing arrays, got %d", len(spans))
	}
}

func TestSameRegionDetectsAdjacencyAndRejectsGaps(t *testing.T) {
	raw := make([]byte, 20)
	a := raw[0:10]
	adjacent := raw[10:15]
	gapped := raw[11:15]
	if !sameRegion(a, adjacent) {
		t.Fatalf("expected adjacent slices of the same backing array to match")
	}
	if sameRegion(a, gapped) {
		t.Fatalf("expected a 1-byte gap to be rejected")
	}
	if sameRegion(nil, adjacent) || sameRegion(a, nil) {
		t.Fatalf("expected empty slices to never be considered adjacent")
	}
}

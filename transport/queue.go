package transport

import "unsafe"

// flushRatio is the fixed interleaving of priority classes the flush loop
// walks each cycle: high, medium, high, low, high, medium (spec.md §4.9).
var flushRatio = [...]Priority{PriorityHigh, PriorityMedium, PriorityHigh, PriorityLow, PriorityHigh, PriorityMedium}

// writeQueues holds one FIFO per priority for a single channel. Not safe
// for concurrent use without the owning Channel's lock (spec.md §5
// "output pool + priority queues (writer-holds-lock)").
type writeQueues struct {
	q        [numPriorities][]*Buffer
	ratioPos int
}

func (w *writeQueues) push(b *Buffer) {
	w.q[b.Priority] = append(w.q[b.Priority], b)
}

func (w *writeQueues) empty() bool {
	for i := range w.q {
		if len(w.q[i]) > 0 {
			return false
		}
	}
	return true
}

// next pops the next buffer to write, walking flushRatio starting from
// where the previous call left off; if that priority's queue is empty it
// keeps advancing through the ratio until one yields a buffer or a full
// cycle comes up dry.
func (w *writeQueues) next() *Buffer {
	for range flushRatio {
		p := flushRatio[w.ratioPos]
		w.ratioPos = (w.ratioPos + 1) % len(flushRatio)
		if len(w.q[p]) > 0 {
			b := w.q[p][0]
			w.q[p] = w.q[p][1:]
			return b
		}
	}
	return nil
}

// drainCoalesced pops every buffer currently due in ratio order, merging
// runs of adjacent buffers that share the same underlying byte region
// into a single write span (spec.md §4.9 "adjacent buffers sharing the
// same underlying byte region are coalesced into one write"). headerFor
// builds the frame header to prepend to each buffer, or may be nil for
// plain byte-stream writes.
func (w *writeQueues) drainCoalesced(headerFor func(*Buffer) []byte) [][]byte {
	var spans [][]byte
	for {
		b := w.next()
		if b == nil {
			break
		}
		var hdr []byte
		if headerFor != nil {
			hdr = headerFor(b)
		}
		span := b.Prepend(hdr, b.n)
		if n := len(spans); n > 0 && sameRegion(spans[n-1], span) {
			spans[n-1] = extendRegion(spans[n-1], span)
			continue
		}
		spans = append(spans, span)
	}
	return spans
}

// sameRegion reports whether b directly continues a: same backing array,
// b's first byte immediately follows a's last byte.
func sameRegion(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aEnd := uintptr(unsafe.Pointer(&a[0])) + uintptr(len(a))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	return aEnd == bStart
}

func extendRegion(a, b []byte) []byte {
	return a[:len(a)+len(b)]
}

// Package transport implements the buffer pool and priority write queues
// (spec component C9) that sit between the message/container codecs and
// the WebSocket framer: guaranteed per-channel buffers backed by a shared
// overflow pool, plus the 3-priority flush strategy. Grounded on aistore's
// transport package (its pdu/collect send-queue and idle-timer idioms),
// generalized here since the corpus's own buffer allocator (memsys) isn't
// present in the retrieved sources to adapt directly.
package transport

import (
	"sync"

	"github.com/mdxfeed/rwfgo/cmn/cos"
)

// Priority selects one of the 3 write queues a finished buffer lands in.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
	numPriorities
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// MaxProtocolHdr is the largest WebSocket frame header this module ever
// prepends: 2 base bytes + 8-byte extended length + 4-byte mask key.
const MaxProtocolHdr = 14

// Buffer is a writeable message buffer reserving a ProtocolHdr-sized
// prefix ahead of Data so the framer can prepend a frame header without
// copying payload bytes (spec.md §4.9 "buffer layout").
type Buffer struct {
	raw      []byte
	dataOff  int
	n        int // bytes actually written to Data(), set by Channel.Submit
	Priority Priority
	pool     *Pool
	tier     tier
}

// HdrSpace returns the prefix the framer may write into, up to
// MaxProtocolHdr bytes, immediately before Data.
func (b *Buffer) HdrSpace() []byte { return b.raw[:b.dataOff] }

// Data is the writeable payload region following the reserved header.
func (b *Buffer) Data() []byte { return b.raw[b.dataOff:] }

// Prepend writes hdr into the tail of HdrSpace and returns the combined
// [hdr|Data[:n]] slice ready for a single transport write.
func (b *Buffer) Prepend(hdr []byte, n int) []byte {
	start := b.dataOff - len(hdr)
	copy(b.raw[start:b.dataOff], hdr)
	return b.raw[start : b.dataOff+n]
}

func (b *Buffer) Free() {
	if b.pool != nil {
		b.pool.put(b)
	}
}

type tier int

const (
	tierGuaranteed tier = iota
	tierOverflow
	tierHeap
)

// sizeClasses mirrors a typical tiered allocator: small/medium/large,
// with anything bigger falling to a plain heap allocation (spec.md §4.9
// "guaranteed ... then shared overflow pool ... then a large-message
// heap list").
var sizeClasses = [...]int{4 * cos.KiB, 64 * cos.KiB, 1 * cos.MiB}

// Pool is the per-server shared buffer allocator: a fixed guaranteed
// allotment per channel backed by pooled overflow buffers, falling back
// to ungoverned heap allocations for oversize messages. Safe for
// concurrent use by multiple channels (multi-producer, per spec.md §5
// "shared buffer pool (multi-producer, internally synchronized)").
type Pool struct {
	mu         sync.Mutex
	guaranteed map[int]int // channel id -> remaining guaranteed buffer count
	slabs      [len(sizeClasses)]sync.Pool
	guaranteedN int
}

// NewPool creates a shared pool; guaranteedPerChannel is the number of
// buffers each channel is promised before falling back to the overflow
// pool.
func NewPool(guaranteedPerChannel int) *Pool {
	p := &Pool{guaranteed: make(map[int]int), guaranteedN: guaranteedPerChannel}
	for i := range p.slabs {
		size := sizeClasses[i]
		p.slabs[i].New = func() any { return make([]byte, size) }
	}
	return p
}

// RegisterChannel resets a channel's guaranteed-buffer allotment.
func (p *Pool) RegisterChannel(chanID int) {
	p.mu.Lock()
	p.guaranteed[chanID] = p.guaranteedN
	p.mu.Unlock()
}

func (p *Pool) UnregisterChannel(chanID int) {
	p.mu.Lock()
	delete(p.guaranteed, chanID)
	p.mu.Unlock()
}

func (p *Pool) slabClass(size int) int {
	for i, cap := range sizeClasses {
		if size <= cap {
			return i
		}
	}
	return -1
}

// Get acquires a buffer able to hold at least size bytes of payload plus
// MaxProtocolHdr of header room. Get always returns a buffer: the
// channel's guaranteed allotment is used first, then the pooled size
// classes, and a payload too large for every size class gets a plain heap
// allocation. The pooled tiers are not capped, so Get has no "no buffers"
// result.
func (p *Pool) Get(chanID int, size int) *Buffer {
	need := size + MaxProtocolHdr
	class := p.slabClass(need)

	p.mu.Lock()
	g := p.guaranteed[chanID]
	useGuaranteed := class >= 0 && g > 0
	if useGuaranteed {
		p.guaranteed[chanID] = g - 1
	}
	p.mu.Unlock()

	t := tierOverflow
	if useGuaranteed {
		t = tierGuaranteed
	}

	var raw []byte
	if class >= 0 {
		raw = p.slabs[class].Get().([]byte)
		if cap(raw) < need {
			raw = make([]byte, sizeClasses[class])
		}
	} else {
		raw = make([]byte, need)
		t = tierHeap
	}
	return &Buffer{raw: raw, dataOff: MaxProtocolHdr, pool: p, tier: t}
}

func (p *Pool) put(b *Buffer) {
	if b.tier == tierGuaranteed {
		// a guaranteed buffer is not credited back to its channel's
		// allotment: the channel id isn't tracked on Buffer to keep it
		// small, so guaranteed buffers simply widen the shared overflow
		// pool.
		b.tier = tierOverflow
	}
	if b.tier == tierHeap {
		return
	}
	class := p.slabClass(cap(b.raw))
	if class < 0 {
		return
	}
	p.slabs[class].Put(b.raw)
}

package transport

import (
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/mdxfeed/rwfgo/cmn/nlog"
	"github.com/mdxfeed/rwfgo/ws"
)

// Writer is the wrapped transport I/O call a Channel writes coalesced
// spans to — typically a net.Conn, but kept minimal so tests can supply
// an in-memory stand-in.
type Writer interface {
	Write([]byte) (int, error)
}

// Channel is one connection's write side: a single-threaded writer
// guarded by its own lock, holding the priority queues and drawing
// buffers from the shared Pool (spec.md §4.9, §5 "single-threaded per
// channel with an explicit per-channel lock").
type Channel struct {
	id   int
	UID  string // random UUID assigned by NewChannel, for callers' log correlation
	pool *Pool
	w    Writer

	session *ws.Session // nil until SetSession: writes go out as raw bytes with no frame header
	opcode  ws.Opcode

	mu     sync.Mutex
	queues writeQueues
	closed bool
}

func NewChannel(id int, pool *Pool, w Writer) *Channel {
	pool.RegisterChannel(id)
	c := &Channel{id: id, UID: uuid.NewString(), pool: pool, w: w, opcode: ws.OpcodeBinary}
	channelsRegistered.Inc()
	return c
}

// SetSession attaches the WebSocket session this channel frames writes
// for; once set, Submit and Flush prepend a frame header built by
// session.PrepareWrite instead of writing raw payload bytes.
func (c *Channel) SetSession(s *ws.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// SetOpcode selects the frame opcode used for subsequent writes once a
// session is attached (OpcodeBinary by default).
func (c *Channel) SetOpcode(op ws.Opcode) {
	c.mu.Lock()
	c.opcode = op
	c.mu.Unlock()
}

// header builds the frame header for b's written bytes, or nil when no
// session is attached (plain byte-stream writes).
func (c *Channel) header(b *Buffer) []byte {
	if c.session == nil {
		return nil
	}
	return c.session.PrepareWrite(c.opcode, b.Data()[:b.n])
}

// GetBuffer acquires a buffer for a size-byte payload (spec.md §4.9
// "getBuffer(size)").
func (c *Channel) GetBuffer(size int) *Buffer {
	return c.pool.Get(c.id, size)
}

// Submit finishes a buffer of n written payload bytes at priority prio.
// If forceFlush is set and the queues are currently empty, it attempts a
// direct write bypassing the queue; a failed direct write frees the
// buffer and returns the error. Otherwise the buffer is appended to the
// matching priority queue for the flush loop to pick up later.
func (c *Channel) Submit(b *Buffer, n int, prio Priority, forceFlush bool) error {
	b.Priority = prio
	b.n = n
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		b.Free()
		return io.ErrClosedPipe
	}
	if forceFlush && c.queues.empty() {
		span := b.Prepend(c.header(b), n)
		_, err := c.w.Write(span)
		b.Free()
		if err != nil {
			nlog.Warningf("channel %d: direct write failed: %v", c.id, err)
			return err
		}
		framesSent.Inc()
		bytesSent.Add(float64(len(span)))
		return nil
	}
	c.queues.push(b)
	queueDepth.WithLabelValues(prio.String()).Inc()
	return nil
}

// Flush drains everything currently queued, in the §4.9 ratio order,
// coalescing contiguous spans, and writes each resulting span in turn.
// Returns the number of spans written and the first error encountered,
// if any; buffers are freed once their spans have been written,
// regardless of outcome.
func (c *Channel) Flush() (int, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	var pending [numPriorities]int
	var bufs []*Buffer
	for i, q := range c.queues.q {
		pending[i] = len(q)
		bufs = append(bufs, q...)
	}
	spans := c.queues.drainCoalesced(c.header)
	c.mu.Unlock()
	for i, n := range pending {
		if n > 0 {
			queueDepth.WithLabelValues(Priority(i).String()).Sub(float64(n))
		}
	}

	var firstErr error
	for _, span := range spans {
		if _, err := c.w.Write(span); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			framesSent.Inc()
			bytesSent.Add(float64(len(span)))
		}
	}
	for _, b := range bufs {
		b.Free()
	}
	return len(spans), firstErr
}

// Close marks the channel closed; further Submit calls fail and pending
// buffers are released back to the pool unwritten.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for i, q := range c.queues.q {
		if n := len(q); n > 0 {
			queueDepth.WithLabelValues(Priority(i).String()).Sub(float64(n))
		}
		for _, b := range q {
			b.Free()
		}
		c.queues.q[i] = nil
	}
	c.pool.UnregisterChannel(c.id)
	channelsRegistered.Dec()
}

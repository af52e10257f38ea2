package transport

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mdxfeed/rwfgo/cmn/cos"
	"github.com/mdxfeed/rwfgo/cmn/nlog"
)

const dfltFlushTick = 10 * time.Millisecond

// FlushLoop periodically drains every registered Channel's priority
// queues, the background half of the write path for buffers that missed
// the direct-write fast path in Channel.Submit (spec.md §4.9).
type FlushLoop struct {
	mu       sync.Mutex
	channels map[int]*Channel
	ticker   *time.Ticker
	stopCh   cos.StopCh
	interval time.Duration
}

var _ cos.Runner = (*FlushLoop)(nil)

func NewFlushLoop(interval time.Duration) *FlushLoop {
	if interval <= 0 {
		interval = dfltFlushTick
	}
	return &FlushLoop{channels: make(map[int]*Channel), stopCh: cos.NewStopCh(), interval: interval}
}

func (*FlushLoop) Name() string { return "flush_loop" }

func (f *FlushLoop) Register(c *Channel) {
	f.mu.Lock()
	f.channels[c.id] = c
	f.mu.Unlock()
}

func (f *FlushLoop) Unregister(c *Channel) {
	f.mu.Lock()
	delete(f.channels, c.id)
	f.mu.Unlock()
}

func (f *FlushLoop) Run() error {
	f.ticker = time.NewTicker(f.interval)
	defer f.ticker.Stop()
	for {
		select {
		case <-f.ticker.C:
			f.tick()
		case <-f.stopCh.Listen():
			return nil
		}
	}
}

func (f *FlushLoop) Stop(err error) {
	nlog.Infof("stopping %s, err: %v", f.Name(), err)
	f.stopCh.Close()
}

// Start runs f under an errgroup tied to ctx, so its goroutine's error (if
// any — Run never actually returns a non-nil error today) is observable
// via the returned group's Wait, and canceling ctx stops the loop the
// same way Stop would.
func Start(ctx context.Context, f *FlushLoop) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return f.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		f.Stop(gctx.Err())
		return nil
	})
	return g, gctx
}

func (f *FlushLoop) tick() {
	f.mu.Lock()
	channels := make([]*Channel, 0, len(f.channels))
	for _, c := range f.channels {
		channels = append(channels, c)
	}
	f.mu.Unlock()

	for _, c := range channels {
		if _, err := c.Flush(); err != nil {
			nlog.Warningf("channel %d: flush error: %v", c.id, err)
		}
	}
}

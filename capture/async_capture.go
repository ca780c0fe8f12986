package capture

import (
	"context"
	"io"
	"time"

	"github.com/vearne/asyncpcap/model"
	"go.uber.org/atomic"
)

type options struct {
	name          string
	queueCapacity int
	now           func() time.Time
}

type Option func(*options)

// WithQueueCapacity bounds the delivery queue. When the queue is full the
// polling loop waits for the consumer, a stop request or Close. The default
// of 0 keeps the queue unbounded.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		o.queueCapacity = n
	}
}

// WithName labels the log lines of the polling loop.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithTimestampSource replaces the timestamp reported by the source with
// now(), taken right after the read returns.
func WithTimestampSource(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// AsyncCapture is the consumer side of a capture bridge. It is safe for
// concurrent use, but all callers share one stream: every packet is returned
// to exactly one NextPacket call, in capture order.
type AsyncCapture struct {
	// one slot; held by the NextPacket call currently draining the queue
	guard  chan struct{}
	queue  *deliveryQueue
	stop   StopHandle
	poller *poller
	stats  *counters

	exhausted atomic.Bool
	closed    atomic.Bool
}

// New starts a polling loop on src and returns the facade to read from and a
// handle to stop the loop. src must already be open and configured; from now
// on it belongs to the loop, which closes it on exit.
func New(src Source, opts ...Option) (*AsyncCapture, StopHandle) {
	if src == nil {
		panic("capture: nil Source")
	}
	o := options{name: "capture"}
	for _, opt := range opts {
		opt(&o)
	}

	sig := newStopSignal()
	stop := StopHandle{sig: sig}
	c := &AsyncCapture{
		guard: make(chan struct{}, 1),
		queue: newDeliveryQueue(o.queueCapacity),
		stop:  stop,
		stats: &counters{},
	}
	c.poller = &poller{
		name:  o.name,
		src:   src,
		queue: c.queue,
		sig:   sig,
		stats: c.stats,
		now:   o.now,
	}
	go c.poller.run()
	return c, stop
}

// NextPacket returns the next captured packet. It returns at once when a
// packet is already buffered, otherwise it waits for one to arrive, for the
// stream to end or for ctx to be done. The end of the stream is reported as
// io.EOF, on this call and every later one. A ctx error leaves the stream
// untouched.
func (c *AsyncCapture) NextPacket(ctx context.Context) (*model.Packet, error) {
	if c.exhausted.Load() {
		return nil, io.EOF
	}

	select {
	case c.guard <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.guard }()

	for {
		p, finished := c.queue.pop()
		if p != nil {
			c.stats.addDelivered()
			return p, nil
		}
		if finished {
			if !c.closed.Load() {
				// the loop closes the queue right before it marks itself stopped
				<-c.stop.Done()
			}
			c.exhausted.Store(true)
			return nil, io.EOF
		}

		select {
		case <-c.queue.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Packets adapts the facade to a channel. The channel is closed at the end
// of the stream or when ctx is done.
func (c *AsyncCapture) Packets(ctx context.Context) <-chan *model.Packet {
	out := make(chan *model.Packet, 1000)
	go func() {
		defer close(out)
		for {
			p, err := c.NextPacket(ctx)
			if err != nil {
				return
			}
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Close tells the polling loop nobody is reading anymore. Buffered packets
// are discarded and NextPacket returns io.EOF from now on. The loop exits on
// its next delivery attempt or after the current read times out, whichever
// comes first.
func (c *AsyncCapture) Close() error {
	if !c.closed.CAS(false, true) {
		return nil
	}
	c.stats.addDropped(c.queue.detach())
	return nil
}

// Err returns the error that ended the stream, if the source failed. It is
// nil while the stream is active and after a clean end, stop or Close.
func (c *AsyncCapture) Err() error {
	if !c.exhausted.Load() || c.closed.Load() {
		return nil
	}
	return c.poller.err.Load()
}

// Exhausted reports whether NextPacket has observed the end of the stream.
func (c *AsyncCapture) Exhausted() bool {
	return c.exhausted.Load()
}

func (c *AsyncCapture) StopHandle() StopHandle {
	return c.stop
}

// Buffered is the number of packets waiting in the queue.
func (c *AsyncCapture) Buffered() int {
	return c.queue.buffered()
}

func (c *AsyncCapture) Stats() Stats {
	return c.stats.snapshot()
}

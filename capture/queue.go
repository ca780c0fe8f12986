package capture

import (
	"errors"
	"sync"

	"github.com/eapache/queue"
	"github.com/vearne/asyncpcap/consts"
	"github.com/vearne/asyncpcap/model"
)

var (
	errReceiverClosed = errors.New("receiver closed")
	errQueueClosed    = errors.New("queue closed")
	errStopRequested  = consts.ErrStopped
)

// deliveryQueue hands packets from the polling loop to the consumer. The loop
// is the only sender and closes it exactly once; the consumer side may detach
// early, after which every push fails with errReceiverClosed.
//
// capacity <= 0 means unbounded. With a positive capacity a push on a full
// queue waits for room, for the receiver to detach or for a stop request.
type deliveryQueue struct {
	mu       sync.Mutex
	buf      *queue.Queue
	capacity int
	closed   bool
	detached bool

	ready chan struct{}
	space chan struct{}
}

func newDeliveryQueue(capacity int) *deliveryQueue {
	return &deliveryQueue{
		buf:      queue.New(),
		capacity: capacity,
		ready:    make(chan struct{}, 1),
		space:    make(chan struct{}, 1),
	}
}

func wake(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}

func (q *deliveryQueue) push(p *model.Packet, stop <-chan struct{}) error {
	for {
		q.mu.Lock()
		if q.detached {
			q.mu.Unlock()
			return errReceiverClosed
		}
		if q.closed {
			q.mu.Unlock()
			return errQueueClosed
		}
		if q.capacity <= 0 || q.buf.Length() < q.capacity {
			q.buf.Add(p)
			q.mu.Unlock()
			wake(q.ready)
			return nil
		}
		q.mu.Unlock()

		select {
		case <-q.space:
		case <-stop:
			return errStopRequested
		}
	}
}

// pop takes the oldest packet. When none is buffered it reports whether the
// queue is finished for good.
func (q *deliveryQueue) pop() (p *model.Packet, finished bool) {
	q.mu.Lock()
	if q.buf.Length() > 0 {
		p = q.buf.Remove().(*model.Packet)
		q.mu.Unlock()
		if q.capacity > 0 {
			wake(q.space)
		}
		return p, false
	}
	finished = q.closed || q.detached
	q.mu.Unlock()
	return nil, finished
}

// close is the sender side hang up. Buffered packets stay readable.
func (q *deliveryQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	wake(q.ready)
}

// detach is the receiver side hang up. It drops whatever is still buffered
// and returns how many packets were discarded.
func (q *deliveryQueue) detach() int {
	q.mu.Lock()
	if q.detached {
		q.mu.Unlock()
		return 0
	}
	q.detached = true
	n := q.buf.Length()
	q.buf = queue.New()
	q.mu.Unlock()
	wake(q.space)
	wake(q.ready)
	return n
}

func (q *deliveryQueue) isDetached() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.detached
}

func (q *deliveryQueue) buffered() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Length()
}

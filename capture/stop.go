package capture

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// StopState is the lifecycle of a polling loop as seen through its StopHandle.
type StopState int32

const (
	Running StopState = iota
	StopRequested
	Stopped
)

func (s StopState) String() string {
	switch s {
	case Running:
		return "running"
	case StopRequested:
		return "stop-requested"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type stopSignal struct {
	state    atomic.Int32
	done     chan struct{}
	doneOnce sync.Once
	// closed on the first Stop call so a blocked push can give up
	requested     chan struct{}
	requestedOnce sync.Once
}

func newStopSignal() *stopSignal {
	return &stopSignal{
		done:      make(chan struct{}),
		requested: make(chan struct{}),
	}
}

func (s *stopSignal) load() StopState {
	return StopState(s.state.Load())
}

func (s *stopSignal) request() {
	if s.state.CAS(int32(Running), int32(StopRequested)) {
		s.requestedOnce.Do(func() { close(s.requested) })
	}
}

// finish is only called by the polling loop, after the source is closed.
func (s *stopSignal) finish() {
	s.state.Store(int32(Stopped))
	s.requestedOnce.Do(func() { close(s.requested) })
	s.doneOnce.Do(func() { close(s.done) })
}

// StopHandle asks a polling loop to terminate. It is a small value: copies
// (or Clone) share the same underlying signal and may be used from any
// goroutine. The zero StopHandle is detached; Stop does nothing and IsStopped
// reports true.
type StopHandle struct {
	sig *stopSignal
}

// Stop requests the loop to exit. It never blocks and only the first call
// has an effect. The loop notices the request before its next read, so the
// worst case latency is one read timeout of the source.
func (h StopHandle) Stop() {
	if h.sig == nil {
		return
	}
	h.sig.request()
}

// IsStopped reports whether the loop has released its source and exited.
func (h StopHandle) IsStopped() bool {
	return h.State() == Stopped
}

func (h StopHandle) State() StopState {
	if h.sig == nil {
		return Stopped
	}
	return h.sig.load()
}

// Done is closed once the loop has exited.
func (h StopHandle) Done() <-chan struct{} {
	if h.sig == nil {
		return closedChan
	}
	return h.sig.done
}

// Wait blocks until the loop has exited or ctx is done.
func (h StopHandle) Wait(ctx context.Context) error {
	select {
	case <-h.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h StopHandle) Clone() StopHandle {
	return h
}

func (h StopHandle) requested() <-chan struct{} {
	if h.sig == nil {
		return closedChan
	}
	return h.sig.requested
}

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

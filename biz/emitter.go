// Package biz moves packets from the input plugins to the output plugins,
// applying the filter chain, the rate limiter and the packet count on the way.
package biz

import (
	"context"
	"io"
	"sync"

	"github.com/vearne/asyncpcap/filter"
	"github.com/vearne/asyncpcap/model"
	slog "github.com/vearne/simplelog"
	"go.uber.org/atomic"
)

// Emitter copies packets from every input to all outputs, one goroutine per
// input.
type Emitter struct {
	sync.WaitGroup
	plugins     *InOutPlugins
	filterChain filter.Filter
	limiter     Limiter
	// 0 means no limit
	count   int64
	written atomic.Int64
	closed  atomic.Bool
}

func NewEmitter(f filter.Filter, lim Limiter, count int) *Emitter {
	var e Emitter
	e.filterChain = f
	e.limiter = lim
	e.count = int64(count)
	return &e
}

// Start returns at once. Use Wait to learn when every input is drained.
func (e *Emitter) Start(ctx context.Context, plugins *InOutPlugins) {
	e.plugins = plugins
	for _, in := range plugins.Inputs {
		e.Add(1)
		go func(in PluginReader) {
			defer e.Done()
			if err := e.CopyMulty(ctx, in, plugins.Outputs...); err != nil {
				slog.Debug("[EMITTER] error during copy: %q", err)
			}
		}(in)
	}
}

// Stop asks every input to end. Packets they already captured are still
// written before Wait returns.
func (e *Emitter) Stop() {
	if e.plugins == nil {
		return
	}
	for _, in := range e.plugins.Inputs {
		if s, ok := in.(stopper); ok {
			s.Stop()
		}
	}
}

// Written is the number of packets that passed the filters and the limiter.
func (e *Emitter) Written() int64 {
	return e.written.Load()
}

// Close closes all plugins and waits for the copy goroutines to finish.
func (e *Emitter) Close() {
	if e.plugins == nil || !e.closed.CAS(false, true) {
		return
	}
	for _, p := range e.plugins.All {
		if cp, ok := p.(io.Closer); ok {
			if err := cp.Close(); err != nil {
				slog.Warn("close plugin %v:%v", p, err)
			}
		}
	}
	if len(e.plugins.All) > 0 {
		// wait for everything to stop
		e.Wait()
	}
}

// CopyMulty reads from src until it reports io.EOF and writes every packet
// that passes the filter chain and the limiter to all writers.
func (e *Emitter) CopyMulty(ctx context.Context, src PluginReader, writers ...PluginWriter) error {
	for {
		p, err := src.Read(ctx)
		if err == io.EOF {
			slog.Debug("[EMITTER] input %v drained", src)
			return nil
		}
		if err != nil {
			return err
		}

		if e.filterChain != nil {
			var ok bool
			if p, ok = e.filterChain.Filter(p); !ok {
				continue
			}
		}

		if e.limiter != nil && !e.limiter.Allow() {
			continue
		}

		n := e.written.Inc()
		if e.count > 0 && n > e.count {
			// over the limit, drain what the inputs still hold
			e.written.Dec()
			continue
		}
		e.write(p, writers)
		if n == e.count {
			slog.Info("[EMITTER] %d packets written, stopping inputs", n)
			e.Stop()
		}
	}
}

func (e *Emitter) write(p *model.Packet, writers []PluginWriter) {
	for _, dst := range writers {
		if err := dst.Write(p); err != nil {
			slog.Error("dst.Write:%v", err)
		}
	}
}

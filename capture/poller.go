package capture

import (
	"fmt"
	"runtime"
	"time"

	"github.com/vearne/asyncpcap/model"
	slog "github.com/vearne/simplelog"
	"go.uber.org/atomic"
)

// poller owns the source for its whole life. Nothing else may touch src
// once run has started.
type poller struct {
	name  string
	src   Source
	queue *deliveryQueue
	sig   *stopSignal
	stats *counters
	// overrides the capture timestamp when set
	now func() time.Time

	err atomic.Error
}

func (p *poller) run() {
	// the source blocks the calling thread inside libpcap
	runtime.LockOSThread()

	defer p.shutdown()
	defer func() {
		if r := recover(); r != nil {
			p.err.Store(fmt.Errorf("panic while reading %s: %v", p.name, r))
			slog.Error("[%s] recovered from panic: %v", p.name, r)
		}
	}()

	for {
		if p.sig.load() != Running {
			slog.Debug("[%s] stop requested", p.name)
			return
		}
		if p.queue.isDetached() {
			slog.Debug("[%s] consumer gone, stop reading", p.name)
			return
		}

		data, ci, err := p.src.ReadPacketData()
		switch classifyReadErr(err) {
		case readOK:
			if p.now != nil {
				ci.Timestamp = p.now()
			}
			pkt := model.NewPacket(data, ci)
			p.stats.addReceived()
			if err = p.queue.push(pkt, p.sig.requested); err != nil {
				p.stats.addDropped(1)
				if err == errReceiverClosed {
					slog.Debug("[%s] consumer gone, stop reading", p.name)
				}
				return
			}
		case readTimeout:
			p.stats.addTimeout()
		case readEnd:
			slog.Info("[%s] stopped reading: %v", p.name, err)
			return
		default:
			p.err.Store(err)
			slog.Error("[%s] stopped reading with error %v", p.name, err)
			return
		}
	}
}

func (p *poller) shutdown() {
	p.closeSource()
	p.queue.close()
	p.sig.finish()
	slog.Debug("[%s] polling loop exited", p.name)
}

func (p *poller) closeSource() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[%s] panic while closing source: %v", p.name, r)
		}
	}()
	p.src.Close()
}

package capture

import (
	"expvar"

	"go.uber.org/atomic"
)

var stats *expvar.Map

func init() {
	stats = expvar.NewMap("asyncpcap")
	stats.Init()
}

// Stats is a snapshot of one bridge's counters.
type Stats struct {
	Received  int64 `json:"received"`
	Delivered int64 `json:"delivered"`
	Dropped   int64 `json:"dropped"`
	Timeouts  int64 `json:"timeouts"`
}

type counters struct {
	received  atomic.Int64
	delivered atomic.Int64
	dropped   atomic.Int64
	timeouts  atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Received:  c.received.Load(),
		Delivered: c.delivered.Load(),
		Dropped:   c.dropped.Load(),
		Timeouts:  c.timeouts.Load(),
	}
}

func (c *counters) addReceived() {
	c.received.Inc()
	stats.Add("packets_received", 1)
}

func (c *counters) addDelivered() {
	c.delivered.Inc()
	stats.Add("packets_delivered", 1)
}

func (c *counters) addDropped(n int) {
	if n <= 0 {
		return
	}
	c.dropped.Add(int64(n))
	stats.Add("packets_dropped", int64(n))
}

func (c *counters) addTimeout() {
	c.timeouts.Inc()
	stats.Add("read_timeouts", 1)
}

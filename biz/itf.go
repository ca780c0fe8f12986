package biz

import (
	"context"

	"github.com/vearne/asyncpcap/model"
)

// PluginReader is an interface for input plugins.
// Read returns io.EOF once the input has nothing more to give.
type PluginReader interface {
	Read(ctx context.Context) (*model.Packet, error)
}

// PluginWriter is an interface for output plugins
type PluginWriter interface {
	Write(p *model.Packet) error
}

// Limiter is satisfied by *rate.Limiter
type Limiter interface {
	Allow() bool
}

type stopper interface {
	Stop()
}

package consts

import "errors"

// set by -ldflags at build time
var (
	Version   = "v0.1.0"
	BuildTime = "unknown"
	GitTag    = "unknown"
)

const (
	ProtocolVersion = 1
	// number of payload bytes rendered by the output codecs
	HexPreviewSize = 32
)

var (
	ErrProtocal = errors.New("protocol error")
	ErrStopped  = errors.New("reading stopped")
)

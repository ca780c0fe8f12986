package protocol

import (
	"encoding/hex"

	"github.com/vearne/asyncpcap/consts"
	"github.com/vearne/asyncpcap/model"
)

// Message is what output plugins print for one packet.
type Message struct {
	Meta          Meta   `json:"meta"`
	CaptureLength int    `json:"captureLength"`
	Length        int    `json:"length"`
	Truncated     bool   `json:"truncated"`
	Preview       string `json:"preview"`
}

type Meta struct {
	Version int    `json:"version"`
	Session string `json:"session"`
	Seq     uint64 `json:"seq"`
	// Nanosecond
	Timestamp int64 `json:"timestamp"`
}

// NewMessage summarizes p. Only the first consts.HexPreviewSize bytes are
// kept, hex encoded; the bytes are never interpreted.
func NewMessage(session string, seq uint64, p *model.Packet) *Message {
	preview := p.Data
	if len(preview) > consts.HexPreviewSize {
		preview = preview[:consts.HexPreviewSize]
	}
	return &Message{
		Meta: Meta{
			Version:   consts.ProtocolVersion,
			Session:   session,
			Seq:       seq,
			Timestamp: p.Timestamp.UnixNano(),
		},
		CaptureLength: p.CaptureLength,
		Length:        p.Length,
		Truncated:     p.Truncated(),
		Preview:       hex.EncodeToString(preview),
	}
}

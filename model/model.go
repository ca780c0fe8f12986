// Package model holds the owned packet record that crosses from the capture
// goroutine to its consumers.
package model

import (
	"fmt"
	"time"

	"github.com/google/gopacket"
)

// Packet is one captured frame. Data is owned by the Packet and never aliases
// the buffer of the source it was read from; a Packet must not be modified
// once it has been handed to a consumer.
type Packet struct {
	Data []byte `json:"data"`
	// CaptureLength is always len(Data)
	CaptureLength int `json:"captureLength"`
	// Length is the on-wire size, >= CaptureLength
	Length         int       `json:"length"`
	Timestamp      time.Time `json:"timestamp"`
	InterfaceIndex int       `json:"interfaceIndex"`
}

// NewPacket copies data and the capture metadata into a new Packet.
func NewPacket(data []byte, ci gopacket.CaptureInfo) *Packet {
	p := &Packet{
		Data:           make([]byte, len(data)),
		Timestamp:      ci.Timestamp,
		InterfaceIndex: ci.InterfaceIndex,
	}
	copy(p.Data, data)
	p.CaptureLength = len(p.Data)
	p.Length = ci.Length
	if p.Length < p.CaptureLength {
		p.Length = p.CaptureLength
	}
	return p
}

// Truncated reports whether the snapshot length cut the frame short.
func (p *Packet) Truncated() bool {
	return p.CaptureLength < p.Length
}

func (p *Packet) CaptureInfo() gopacket.CaptureInfo {
	return gopacket.CaptureInfo{
		Timestamp:      p.Timestamp,
		CaptureLength:  p.CaptureLength,
		Length:         p.Length,
		InterfaceIndex: p.InterfaceIndex,
	}
}

func (p *Packet) Clone() *Packet {
	return NewPacket(p.Data, p.CaptureInfo())
}

func (p *Packet) String() string {
	return fmt.Sprintf("Packet{ts:%v, caplen:%d, len:%d}",
		p.Timestamp.Format(time.RFC3339Nano), p.CaptureLength, p.Length)
}

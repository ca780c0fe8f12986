package capture

import (
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// Source is an already opened, blocking packet source. ReadPacketData is
// expected to return within the read timeout the source was configured with;
// a read that yields nothing in that interval reports a timeout error.
// *pcap.Handle satisfies Source.
type Source interface {
	gopacket.PacketDataSource
	Close()
}

// ErrTimeout can be returned by sources that are not backed by libpcap to
// report a read interval that elapsed without a packet.
var ErrTimeout = errors.New("read timeout")

var _ Source = (*pcap.Handle)(nil)

type readResult uint8

const (
	readOK readResult = iota
	readTimeout
	readEnd
	readFatal
)

func classifyReadErr(err error) readResult {
	if err == nil {
		return readOK
	}
	if errors.Is(err, ErrTimeout) {
		return readTimeout
	}
	if enext, ok := err.(pcap.NextError); ok {
		switch enext {
		case pcap.NextErrorTimeoutExpired:
			return readTimeout
		case pcap.NextErrorNoMorePackets:
			return readEnd
		}
		return readFatal
	}
	if eno, ok := err.(syscall.Errno); ok && eno.Temporary() {
		return readTimeout
	}
	var enet net.Error
	if errors.As(err, &enet) && enet.Timeout() {
		return readTimeout
	}
	if err == io.EOF || err == io.ErrClosedPipe {
		return readEnd
	}
	return readFatal
}

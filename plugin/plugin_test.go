package plugin

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearne/asyncpcap/model"
	"github.com/vearne/asyncpcap/protocol"
	"github.com/vearne/asyncpcap/util"
)

type sliceSource struct {
	sync.Mutex
	packets [][]byte
	closed  bool
}

func (s *sliceSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	s.Lock()
	defer s.Unlock()
	if len(s.packets) == 0 {
		return nil, gopacket.CaptureInfo{}, io.EOF
	}
	data := s.packets[0]
	s.packets = s.packets[1:]
	return data, gopacket.CaptureInfo{
		Timestamp:     time.Unix(1700000000, 0),
		CaptureLength: len(data),
		Length:        len(data),
	}, nil
}

func (s *sliceSource) Close() {
	s.Lock()
	s.closed = true
	s.Unlock()
}

func (s *sliceSource) isClosed() bool {
	s.Lock()
	defer s.Unlock()
	return s.closed
}

func TestRAWInputRead(t *testing.T) {
	src := &sliceSource{packets: [][]byte{{1}, {2, 2}, {3, 3, 3}}}
	in := NewRAWInput(src, "slice", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 1; i <= 3; i++ {
		p, err := in.Read(ctx)
		require.Nil(t, err)
		assert.Equal(t, i, p.Length)
	}
	_, err := in.Read(ctx)
	assert.Equal(t, io.EOF, err)
	assert.Nil(t, in.Err())
	assert.True(t, in.StopHandle().IsStopped())
	assert.True(t, src.isClosed())

	stats := in.GetStats()
	assert.Equal(t, int64(3), stats.Received)
	assert.Equal(t, int64(3), stats.Delivered)
	assert.Contains(t, in.String(), "slice")
}

func TestRAWInputClose(t *testing.T) {
	src := &sliceSource{packets: [][]byte{{1}, {2}}}
	in := NewRAWInput(src, "slice", nil)
	require.Nil(t, in.Close())

	_, err := in.Read(context.Background())
	assert.Equal(t, io.EOF, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Nil(t, in.StopHandle().Wait(ctx))
	assert.True(t, src.isClosed())
}

func TestStdOutputWrite(t *testing.T) {
	buf := &util.GoroutineSafeBuffer{}
	out := NewWriterOutput(protocol.CodecSimpleName, buf)

	for i := 0; i < 2; i++ {
		p := model.NewPacket([]byte{0xde, 0xad}, gopacket.CaptureInfo{
			Timestamp:     time.Unix(1, 0),
			CaptureLength: 2,
			Length:        2,
		})
		require.Nil(t, out.Write(p))
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for i, line := range lines {
		var msg protocol.Message
		require.Nil(t, protocol.CodecSimple{}.Unmarshal([]byte(line), &msg))
		assert.Equal(t, uint64(i+1), msg.Meta.Seq)
		assert.Equal(t, "dead", msg.Preview)
	}
}

func TestStdOutputUnknownCodec(t *testing.T) {
	out := NewWriterOutput("xml", &util.GoroutineSafeBuffer{})
	assert.Equal(t, protocol.CodecSimpleName, out.codec.Name())
	assert.Nil(t, out.Close())
}

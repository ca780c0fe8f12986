package filter

import (
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/vearne/asyncpcap/model"
)

func packet(caplen, length int) *model.Packet {
	return model.NewPacket(make([]byte, caplen), gopacket.CaptureInfo{CaptureLength: caplen, Length: length})
}

func TestFilterChain(t *testing.T) {
	c := NewFilterChain()
	_, ok := c.Filter(packet(10, 10))
	assert.True(t, ok, "empty chain passes everything")

	c.AddIncludeFilter(NewLengthIncludeFilter(60, 1514))
	c.AddExcludeFilter(NewTruncatedExcludeFilter())
	assert.Equal(t, 2, c.Len())

	cases := []struct {
		caplen, length int
		pass           bool
	}{
		{60, 60, true},
		{1514, 1514, true},
		{59, 59, false},
		{9000, 9000, false},
		{96, 1500, false},
	}
	for _, cs := range cases {
		p, ok := c.Filter(packet(cs.caplen, cs.length))
		assert.Equal(t, cs.pass, ok, "caplen:%d len:%d", cs.caplen, cs.length)
		if ok {
			assert.NotNil(t, p)
		}
	}
}

func TestLengthIncludeFilterNoUpperBound(t *testing.T) {
	f := NewLengthIncludeFilter(0, 0)
	_, ok := f.Filter(packet(65535, 65535))
	assert.True(t, ok)
}

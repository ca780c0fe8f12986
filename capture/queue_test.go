package capture

import (
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearne/asyncpcap/model"
)

func pkt(b byte) *model.Packet {
	return model.NewPacket([]byte{b}, gopacket.CaptureInfo{})
}

func TestDeliveryQueueFIFO(t *testing.T) {
	q := newDeliveryQueue(0)
	for i := 0; i < 100; i++ {
		require.Nil(t, q.push(pkt(byte(i)), nil))
	}
	q.close()
	assert.Equal(t, errQueueClosed, q.push(pkt(0), nil))

	for i := 0; i < 100; i++ {
		p, finished := q.pop()
		require.NotNil(t, p)
		assert.False(t, finished)
		assert.Equal(t, byte(i), p.Data[0])
	}
	p, finished := q.pop()
	assert.Nil(t, p)
	assert.True(t, finished)
}

func TestDeliveryQueueDetach(t *testing.T) {
	q := newDeliveryQueue(0)
	require.Nil(t, q.push(pkt(1), nil))
	require.Nil(t, q.push(pkt(2), nil))

	assert.Equal(t, 2, q.detach())
	assert.Equal(t, 0, q.detach())
	assert.True(t, q.isDetached())
	assert.Equal(t, errReceiverClosed, q.push(pkt(3), nil))

	p, finished := q.pop()
	assert.Nil(t, p)
	assert.True(t, finished)
}

func TestDeliveryQueueBoundedBackpressure(t *testing.T) {
	q := newDeliveryQueue(1)
	require.Nil(t, q.push(pkt(1), nil))

	pushed := make(chan error, 1)
	go func() {
		pushed <- q.push(pkt(2), nil)
	}()

	select {
	case <-pushed:
		t.Fatal("push on a full queue returned")
	case <-time.After(30 * time.Millisecond):
	}

	p, _ := q.pop()
	assert.Equal(t, byte(1), p.Data[0])
	select {
	case err := <-pushed:
		assert.Nil(t, err)
	case <-time.After(time.Second):
		t.Fatal("push not woken by pop")
	}
	p, _ = q.pop()
	assert.Equal(t, byte(2), p.Data[0])
}

func TestDeliveryQueueBoundedPushObservesStop(t *testing.T) {
	q := newDeliveryQueue(1)
	require.Nil(t, q.push(pkt(1), nil))

	stop := make(chan struct{})
	pushed := make(chan error, 1)
	go func() {
		pushed <- q.push(pkt(2), stop)
	}()
	close(stop)

	select {
	case err := <-pushed:
		assert.Equal(t, errStopRequested, err)
	case <-time.After(time.Second):
		t.Fatal("push ignored the stop request")
	}
	assert.Equal(t, 1, q.buffered())
}

func TestDeliveryQueueBoundedPushObservesDetach(t *testing.T) {
	q := newDeliveryQueue(1)
	require.Nil(t, q.push(pkt(1), nil))

	pushed := make(chan error, 1)
	go func() {
		pushed <- q.push(pkt(2), nil)
	}()
	time.Sleep(10 * time.Millisecond)
	q.detach()

	select {
	case err := <-pushed:
		assert.Equal(t, errReceiverClosed, err)
	case <-time.After(time.Second):
		t.Fatal("push ignored detach")
	}
}

package biz

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearne/asyncpcap/filter"
	"github.com/vearne/asyncpcap/model"
)

type testInput struct {
	sync.Mutex
	packets []*model.Packet
	stopped bool
	closed  bool
}

func newTestInput(lengths ...int) *testInput {
	in := &testInput{}
	for _, l := range lengths {
		in.packets = append(in.packets, model.NewPacket(make([]byte, l),
			gopacket.CaptureInfo{Timestamp: time.Now(), CaptureLength: l, Length: l}))
	}
	return in
}

func (in *testInput) Read(ctx context.Context) (*model.Packet, error) {
	in.Lock()
	defer in.Unlock()
	if len(in.packets) == 0 {
		return nil, io.EOF
	}
	p := in.packets[0]
	in.packets = in.packets[1:]
	return p, nil
}

func (in *testInput) Stop() {
	in.Lock()
	in.stopped = true
	in.Unlock()
}

func (in *testInput) Close() error {
	in.Lock()
	in.closed = true
	in.Unlock()
	return nil
}

type testOutput struct {
	sync.Mutex
	lengths []int
}

func (o *testOutput) Write(p *model.Packet) error {
	o.Lock()
	o.lengths = append(o.lengths, p.Length)
	o.Unlock()
	return nil
}

func (o *testOutput) got() []int {
	o.Lock()
	defer o.Unlock()
	return append([]int(nil), o.lengths...)
}

type denyAll struct{}

func (denyAll) Allow() bool { return false }

func newTestPlugins(in *testInput, outs ...*testOutput) *InOutPlugins {
	plugins := &InOutPlugins{Inputs: []PluginReader{in}}
	plugins.All = append(plugins.All, in)
	for _, o := range outs {
		plugins.Outputs = append(plugins.Outputs, o)
		plugins.All = append(plugins.All, o)
	}
	return plugins
}

func TestEmitter(t *testing.T) {
	in := newTestInput(1, 2, 3, 4, 5)
	out1, out2 := &testOutput{}, &testOutput{}

	emitter := NewEmitter(filter.NewFilterChain(), nil, 0)
	emitter.Start(context.Background(), newTestPlugins(in, out1, out2))
	emitter.Wait()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, out1.got())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, out2.got())
	assert.Equal(t, int64(5), emitter.Written())

	emitter.Close()
	assert.True(t, in.closed)
	// a second Close is a no-op
	emitter.Close()
}

func TestEmitterFiltered(t *testing.T) {
	in := newTestInput(10, 100, 1000, 60)
	out := &testOutput{}

	chain := filter.NewFilterChain()
	chain.AddIncludeFilter(filter.NewLengthIncludeFilter(50, 500))

	emitter := NewEmitter(chain, nil, 0)
	emitter.Start(context.Background(), newTestPlugins(in, out))
	emitter.Wait()

	assert.Equal(t, []int{100, 60}, out.got())
}

func TestEmitterLimiter(t *testing.T) {
	in := newTestInput(1, 2, 3)
	out := &testOutput{}

	emitter := NewEmitter(nil, denyAll{}, 0)
	emitter.Start(context.Background(), newTestPlugins(in, out))
	emitter.Wait()

	assert.Empty(t, out.got())
	assert.Equal(t, int64(0), emitter.Written())
}

func TestEmitterCount(t *testing.T) {
	in := newTestInput(1, 2, 3, 4, 5, 6)
	out := &testOutput{}

	emitter := NewEmitter(nil, nil, 2)
	emitter.Start(context.Background(), newTestPlugins(in, out))
	emitter.Wait()

	assert.Equal(t, []int{1, 2}, out.got())
	assert.Equal(t, int64(2), emitter.Written())
	assert.True(t, in.stopped)
}

func TestEmitterContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewEmitter(nil, nil, 0).CopyMulty(ctx, ctxInput{}, &testOutput{})
	require.NotNil(t, err)
	assert.Equal(t, context.Canceled, err)
}

type ctxInput struct{}

func (ctxInput) Read(ctx context.Context) (*model.Packet, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestEmitterStopBeforeStart(t *testing.T) {
	emitter := NewEmitter(nil, nil, 0)
	emitter.Stop()
	emitter.Close()
}

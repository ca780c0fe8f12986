package plugin

import (
	"context"
	"fmt"

	"github.com/vearne/asyncpcap/capture"
	"github.com/vearne/asyncpcap/model"
	slog "github.com/vearne/simplelog"
)

// RAWInput reads packets from an opened capture source through the bridge.
type RAWInput struct {
	name    string
	capture *capture.AsyncCapture
	stop    capture.StopHandle
}

// NewRAWInput takes ownership of src; it is closed when the capture ends.
func NewRAWInput(src capture.Source, name string, opts []capture.Option) *RAWInput {
	i := new(RAWInput)
	i.name = name
	opts = append([]capture.Option{capture.WithName(name)}, opts...)
	i.capture, i.stop = capture.New(src, opts...)
	slog.Debug("RAWInput started, source:%v", name)
	return i
}

// Read returns io.EOF once the capture is over.
func (i *RAWInput) Read(ctx context.Context) (*model.Packet, error) {
	return i.capture.NextPacket(ctx)
}

// Stop ends the capture but lets buffered packets be read.
func (i *RAWInput) Stop() {
	i.stop.Stop()
}

// Close ends the capture and discards what was not read yet.
func (i *RAWInput) Close() error {
	i.stop.Stop()
	return i.capture.Close()
}

// Err is the source failure that ended the capture, if any.
func (i *RAWInput) Err() error {
	return i.capture.Err()
}

func (i *RAWInput) StopHandle() capture.StopHandle {
	return i.stop
}

func (i *RAWInput) GetStats() capture.Stats {
	return i.capture.Stats()
}

func (i *RAWInput) String() string {
	return fmt.Sprintf("Intercepting traffic from: %s", i.name)
}

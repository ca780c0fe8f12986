package plugin

import (
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vearne/asyncpcap/model"
	"github.com/vearne/asyncpcap/protocol"
)

// StdOutput prints one line per packet with the configured codec.
type StdOutput struct {
	sync.Mutex
	codec   protocol.Codec
	w       io.Writer
	session string
	seq     uint64
}

func NewStdOutput(codec string) *StdOutput {
	return NewWriterOutput(codec, os.Stdout)
}

// NewWriterOutput is StdOutput writing to w. An unknown codec falls back to
// the simple one.
func NewWriterOutput(codec string, w io.Writer) *StdOutput {
	var o StdOutput
	o.codec = protocol.GetCodec(codec)
	if o.codec == nil {
		o.codec = protocol.CodecSimple{}
	}
	o.w = w
	o.session = uuid.NewString()
	return &o
}

func (o *StdOutput) Write(p *model.Packet) error {
	o.Lock()
	defer o.Unlock()

	o.seq++
	data, err := o.codec.Marshal(protocol.NewMessage(o.session, o.seq, p))
	if err != nil {
		return errors.Wrap(err, "marshal packet")
	}
	data = append(data, '\n')
	_, err = o.w.Write(data)
	return err
}

func (o *StdOutput) Close() error {
	return nil
}

func (o *StdOutput) String() string {
	return "Stdout output, codec: " + o.codec.Name()
}

package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/vearne/asyncpcap/consts"
)

const CodecJsonName = "json"

func init() {
	RegisterCodec(CodecJson{})
}

// CodecJson writes one JSON object per packet.
type CodecJson struct{}

func (c CodecJson) Marshal(v *Message) ([]byte, error) {
	return json.Marshal(v)
}

func (c CodecJson) Unmarshal(data []byte, v *Message) error {
	if err := json.Unmarshal(bytes.TrimSpace(data), v); err != nil {
		return err
	}
	if v.Meta.Version != consts.ProtocolVersion {
		return consts.ErrProtocal
	}
	return nil
}

func (c CodecJson) Name() string {
	return CodecJsonName
}

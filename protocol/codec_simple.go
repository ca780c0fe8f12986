package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vearne/asyncpcap/consts"
)

const CodecSimpleName = "simple"

func init() {
	RegisterCodec(CodecSimple{})
}

// CodecSimple writes one line per packet:
// {version} {session} {seq} {timestamp} {caplen} {len} {truncated} {preview}
type CodecSimple struct{}

func (c CodecSimple) Marshal(msg *Message) ([]byte, error) {
	preview := msg.Preview
	if preview == "" {
		preview = "-"
	}
	line := fmt.Sprintf("%d %s %d %d %d %d %d %s", msg.Meta.Version, msg.Meta.Session,
		msg.Meta.Seq, msg.Meta.Timestamp, msg.CaptureLength, msg.Length,
		bool2Int(msg.Truncated), preview)
	return []byte(line), nil
}

func (c CodecSimple) Unmarshal(data []byte, msg *Message) error {
	strList := strings.Fields(strings.TrimSpace(string(data)))
	if len(strList) != 8 {
		return consts.ErrProtocal
	}

	var err error
	if msg.Meta.Version, err = strconv.Atoi(strList[0]); err != nil {
		return err
	}
	msg.Meta.Session = strList[1]
	if msg.Meta.Seq, err = strconv.ParseUint(strList[2], 10, 64); err != nil {
		return err
	}
	if msg.Meta.Timestamp, err = strconv.ParseInt(strList[3], 10, 64); err != nil {
		return err
	}
	if msg.CaptureLength, err = strconv.Atoi(strList[4]); err != nil {
		return err
	}
	if msg.Length, err = strconv.Atoi(strList[5]); err != nil {
		return err
	}
	tmp, err := strconv.Atoi(strList[6])
	if err != nil {
		return err
	}
	msg.Truncated = int2bool(tmp)
	msg.Preview = strList[7]
	if msg.Preview == "-" {
		msg.Preview = ""
	}
	return nil
}

func (c CodecSimple) Name() string {
	return CodecSimpleName
}

func bool2Int(b bool) int {
	if b {
		return 1
	}
	return 0
}

func int2bool(v int) bool {
	return v > 0
}

package capture

import (
	"bufio"
	"bytes"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"
	slog "github.com/vearne/simplelog"
)

var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

type fileReader interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

// FileSource replays a pcap or pcapng file without libpcap. It reports
// io.EOF after the last packet.
type FileSource struct {
	file   *os.File
	reader fileReader
}

func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open capture file")
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(len(pcapngMagic))
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "read header of %s", path)
	}

	var r fileReader
	if bytes.Equal(magic, pcapngMagic) {
		r, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		r, err = pcapgo.NewReader(br)
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "parse header of %s", path)
	}

	slog.Info("capture file %s opened, link type:%v", path, r.LinkType())
	return &FileSource{file: f, reader: r}, nil
}

func (s *FileSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	return s.reader.ReadPacketData()
}

func (s *FileSource) LinkType() layers.LinkType {
	return s.reader.LinkType()
}

func (s *FileSource) Close() {
	if err := s.file.Close(); err != nil {
		slog.Warn("close capture file:%v", err)
	}
}

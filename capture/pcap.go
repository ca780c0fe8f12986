package capture

import (
	"strings"
	"time"

	"github.com/google/gopacket/pcap"
	"github.com/pkg/errors"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/vearne/asyncpcap/size"
	"github.com/vearne/asyncpcap/util"
	slog "github.com/vearne/simplelog"
)

const (
	DefaultSnaplen = 65535
	DefaultTimeout = 500 * time.Millisecond
	// TimestampGo stamps packets with the local clock instead of the kernel's
	TimestampGo = "go"
)

// PcapOptions are applied to an inactive pcap handle before activation.
type PcapOptions struct {
	Promiscuous   bool          `json:"promisc"`
	Snaplen       int           `json:"snaplen"`
	Timeout       time.Duration `json:"timeout"`
	Immediate     bool          `json:"immediate"`
	BufferSize    size.Size     `json:"buffer-size"`
	TimestampType string        `json:"timestamp-type"`
}

func DefaultPcapOptions() PcapOptions {
	return PcapOptions{
		Promiscuous: true,
		Snaplen:     DefaultSnaplen,
		Timeout:     DefaultTimeout,
		Immediate:   true,
	}
}

// LocalTimestamps reports whether packets should carry the Go clock, see
// WithTimestampSource.
func (o PcapOptions) LocalTimestamps() bool {
	return o.TimestampType == TimestampGo
}

// OpenLive opens device for live capture. The read timeout bounds how long a
// stop request may wait to be noticed, so a zero Timeout falls back to
// DefaultTimeout.
func OpenLive(device string, opts PcapOptions) (*pcap.Handle, error) {
	inactive, err := pcap.NewInactiveHandle(device)
	if err != nil {
		return nil, errors.Wrapf(err, "inactive handle, interface: %q", device)
	}
	defer inactive.CleanUp()

	if opts.TimestampType != "" && !opts.LocalTimestamps() {
		var ts pcap.TimestampSource
		ts, err = pcap.TimestampSourceFromString(opts.TimestampType)
		if err == nil {
			err = inactive.SetTimestampSource(ts)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "timestamp source, supported: %q, interface: %q",
				inactive.SupportedTimestamps(), device)
		}
	}
	if err = inactive.SetPromisc(opts.Promiscuous); err != nil {
		return nil, errors.Wrapf(err, "promiscuous mode, interface: %q", device)
	}

	snap := opts.Snaplen
	if snap <= 0 {
		snap = DefaultSnaplen
	}
	if err = inactive.SetSnapLen(snap); err != nil {
		return nil, errors.Wrapf(err, "snapshot length, interface: %q", device)
	}
	if opts.BufferSize > 0 {
		if err = inactive.SetBufferSize(opts.BufferSize.Int()); err != nil {
			return nil, errors.Wrapf(err, "buffer size, interface: %q", device)
		}
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout < 0 {
		slog.Warn("interface %q reads block forever, a stop request waits for the next packet", device)
	}
	if err = inactive.SetTimeout(timeout); err != nil {
		return nil, errors.Wrapf(err, "read timeout, interface: %q", device)
	}
	if err = inactive.SetImmediateMode(opts.Immediate); err != nil {
		return nil, errors.Wrapf(err, "immediate mode, interface: %q", device)
	}

	handle, err := inactive.Activate()
	if err != nil {
		return nil, errors.Wrapf(err, "activate, interface: %q", device)
	}
	slog.Info("interface %s opened, snaplen:%d, timeout:%v, promisc:%v, immediate:%v",
		device, snap, timeout, opts.Promiscuous, opts.Immediate)
	return handle, nil
}

// ListDevices returns every device libpcap can capture on.
func ListDevices() ([]pcap.Interface, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return nil, errors.Wrap(err, "find devices")
	}
	return devs, nil
}

// FindDevice resolves name to a capture device. name may be a device name, a
// prefix ending in '*' or one of the device's IP addresses. An empty name
// picks the first device that is up, has an address and is not a loopback.
// Devices listed in ignore are never returned.
func FindDevice(name string, ignore []string) (pcap.Interface, error) {
	devs, err := ListDevices()
	if err != nil {
		return pcap.Interface{}, err
	}
	return pickDevice(devs, name, util.NewStringSet(ignore...), interfaceFlags())
}

func pickDevice(devs []pcap.Interface, name string, ignore *util.StringSet,
	flags map[string]*util.StringSet) (pcap.Interface, error) {
	var candidates []pcap.Interface
	for _, dev := range devs {
		if !ignore.Has(dev.Name) {
			candidates = append(candidates, dev)
		}
	}
	if len(candidates) == 0 {
		return pcap.Interface{}, errors.New("no capture device available")
	}

	if name != "" {
		for _, dev := range candidates {
			if isDevice(name, dev) {
				return dev, nil
			}
		}
		return pcap.Interface{}, errors.Errorf("no capture device matches %q", name)
	}

	for _, dev := range candidates {
		if len(dev.Addresses) == 0 {
			continue
		}
		if f, ok := flags[dev.Name]; ok && (!f.Has("up") || f.Has("loopback")) {
			continue
		}
		return dev, nil
	}
	// same as pcap_lookupdev: anything is better than nothing
	return candidates[0], nil
}

func interfaceFlags() map[string]*util.StringSet {
	result := make(map[string]*util.StringSet)
	ifis, err := psnet.Interfaces()
	if err != nil {
		slog.Warn("list interface flags:%v", err)
		return result
	}
	for _, ifi := range ifis {
		result[ifi.Name] = util.NewStringSet(ifi.Flags...)
	}
	return result
}

func isDevice(addr string, ifi pcap.Interface) bool {
	// Windows npcap loopback have no IPs
	if addr == "127.0.0.1" && ifi.Name == `\Device\NPF_Loopback` {
		return true
	}

	if addr == ifi.Name {
		return true
	}

	if strings.HasSuffix(addr, "*") {
		if strings.HasPrefix(ifi.Name, addr[:len(addr)-1]) {
			return true
		}
	}

	for _, a := range ifi.Addresses {
		if a.IP.String() == addr {
			return true
		}
	}
	return false
}

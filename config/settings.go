// Package config holds the command line settings of asyncpcap.
package config

import (
	"fmt"
	"time"

	"github.com/vearne/asyncpcap/size"
)

// MultiStringOption collects every occurrence of a repeated flag, e.g.
// --ignore-interface=docker0 --ignore-interface=lo
type MultiStringOption struct {
	Params *[]string
}

func (h *MultiStringOption) String() string {
	if h.Params == nil {
		return ""
	}
	return fmt.Sprint(*h.Params)
}

// Set gets called multiple times for each flag with same name
func (h *MultiStringOption) Set(value string) error {
	if h.Params == nil {
		return nil
	}

	*h.Params = append(*h.Params, value)
	return nil
}

type AppSettings struct {
	ExitAfter time.Duration `json:"exit-after"`

	// ######################## input #######################
	// device name, prefix ending in '*' or IP address; empty picks one
	Device          string   `json:"device"`
	IgnoreInterface []string `json:"ignore-interface"`
	ListDevices     bool     `json:"list-devices"`
	// read a pcap/pcapng file instead of a live device
	PcapFile string `json:"pcap-file"`

	Promiscuous   bool          `json:"promisc"`
	Snaplen       size.Size     `json:"snaplen"`
	Timeout       time.Duration `json:"timeout"`
	Immediate     bool          `json:"immediate"`
	BufferSize    size.Size     `json:"buffer-size"`
	TimestampType string        `json:"timestamp-type"`
	// 0 keeps the delivery queue unbounded
	QueueCapacity int `json:"queue-capacity"`

	// ######################## output ########################
	OutputStdout bool   `json:"output-stdout"`
	Codec        string `json:"codec"`
	// stop after this many packets were written, 0 means no limit
	Count int `json:"count"`

	// --- filter ---
	IncludeFilterMinLength int  `json:"include-filter-min-length"`
	IncludeFilterMaxLength int  `json:"include-filter-max-length"`
	ExcludeFilterTruncated bool `json:"exclude-filter-truncated"`

	// --- rate limit ---
	// Query per second
	RateLimitQPS int `json:"rate-limit-qps"`
}

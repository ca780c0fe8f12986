package filter

import "github.com/vearne/asyncpcap/model"

// TruncatedExcludeFilter drops packets cut short by the snapshot length.
type TruncatedExcludeFilter struct{}

func NewTruncatedExcludeFilter() *TruncatedExcludeFilter {
	return &TruncatedExcludeFilter{}
}

func (f *TruncatedExcludeFilter) Filter(p *model.Packet) (*model.Packet, bool) {
	if p.Truncated() {
		return nil, false
	}
	return p, true
}

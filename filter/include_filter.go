package filter

import "github.com/vearne/asyncpcap/model"

// LengthIncludeFilter passes packets whose on-wire length is within
// [min, max]. A max of 0 means no upper bound.
type LengthIncludeFilter struct {
	min int
	max int
}

func NewLengthIncludeFilter(min, max int) *LengthIncludeFilter {
	return &LengthIncludeFilter{min: min, max: max}
}

func (f *LengthIncludeFilter) Filter(p *model.Packet) (*model.Packet, bool) {
	if p.Length < f.min {
		return nil, false
	}
	if f.max > 0 && p.Length > f.max {
		return nil, false
	}
	return p, true
}

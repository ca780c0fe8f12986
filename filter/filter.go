// Package filter decides, from capture metadata only, which packets reach the
// output plugins. Packet bytes are never inspected.
package filter

import "github.com/vearne/asyncpcap/model"

type Filter interface {
	// Filter :If ok is true, it means that the packet can pass
	Filter(p *model.Packet) (*model.Packet, bool)
}

type FilterChain struct {
	includeFilters []Filter
	excludeFilters []Filter
}

func NewFilterChain() *FilterChain {
	var chain FilterChain
	chain.includeFilters = make([]Filter, 0)
	chain.excludeFilters = make([]Filter, 0)
	return &chain
}

func (c *FilterChain) AddIncludeFilter(f Filter) {
	c.includeFilters = append(c.includeFilters, f)
}

func (c *FilterChain) AddExcludeFilter(f Filter) {
	c.excludeFilters = append(c.excludeFilters, f)
}

func (c *FilterChain) Len() int {
	return len(c.includeFilters) + len(c.excludeFilters)
}

func (c *FilterChain) Filter(p *model.Packet) (*model.Packet, bool) {
	for _, f := range c.includeFilters {
		if _, ok := f.Filter(p); !ok {
			return nil, false
		}
	}

	for _, f := range c.excludeFilters {
		if _, ok := f.Filter(p); !ok {
			return nil, false
		}
	}
	return p, true
}

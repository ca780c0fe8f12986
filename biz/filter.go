package biz

import (
	"github.com/pkg/errors"
	"github.com/vearne/asyncpcap/config"
	"github.com/vearne/asyncpcap/filter"
)

func NewFilterChain(settings *config.AppSettings) (filter.Filter, error) {
	c := filter.NewFilterChain()

	min, max := settings.IncludeFilterMinLength, settings.IncludeFilterMaxLength
	if min < 0 || max < 0 {
		return nil, errors.Errorf("negative length filter [%d, %d]", min, max)
	}
	if max > 0 && min > max {
		return nil, errors.Errorf("include-filter-min-length %d is above include-filter-max-length %d",
			min, max)
	}
	if min > 0 || max > 0 {
		c.AddIncludeFilter(filter.NewLengthIncludeFilter(min, max))
	}

	if settings.ExcludeFilterTruncated {
		c.AddExcludeFilter(filter.NewTruncatedExcludeFilter())
	}
	return c, nil
}

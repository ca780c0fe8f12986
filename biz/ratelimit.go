package biz

import (
	"github.com/vearne/asyncpcap/config"
	"golang.org/x/time/rate"
)

// NewRateLimit returns nil when no limit is configured.
func NewRateLimit(settings *config.AppSettings) Limiter {
	if settings.RateLimitQPS > 0 {
		value := settings.RateLimitQPS
		return rate.NewLimiter(rate.Limit(value), value)
	}
	return nil
}

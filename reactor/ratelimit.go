package reactor

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// RateLimiter caps how often a given category of event may be logged.
// *catrate.Limiter satisfies this directly; it is a direct, wired
// dependency here rather than one pulled in only transitively via logiface.
type RateLimiter interface {
	Allow(category any) (time.Time, bool)
}

// NewRateLimiter builds a RateLimiter with the given sliding-window rates,
// e.g. NewRateLimiter(map[time.Duration]int{time.Second: 5}) to cap a
// category at 5 log lines per second.
func NewRateLimiter(rates map[time.Duration]int) RateLimiter {
	return catrate.NewLimiter(rates)
}

package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/postharvest"
	"golang.org/x/time/rate"
)

var _ postharvest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces requests with one token bucket per host and a burst
// of 1, so the first request to a host is immediate.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiterEvery allows one request per interval to each host.
// A non-positive interval disables limiting.
func NewDomainLimiterEvery(interval time.Duration) *DomainLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the limiter for domain allows a request.
// Returns the context's error if it is canceled first.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// Package rate throttles and retries calls to the language model and
// embedding services.
package rate

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter provides per-key rate limiting using token buckets. Each key, such
// as a provider and operation, gets its own bucket so that embedding during an
// index build does not starve answer generation.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewLimiter creates a Limiter allowing rps requests per second per key.
// A non-positive rps disables limiting.
func NewLimiter(rps float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until the limit for key allows a request.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if l == nil || l.rps <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}

// Package ratelimit throttles outbound connector calls per source so a
// burst of searches cannot hammer any one site. Limits come from
// configuration, with a fallback for sources that have no entry.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limit is the token-bucket shape for one source.
type Limit struct {
	RPS   float64
	Burst int
}

type SourceLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limits   map[string]Limit
	fallback Limit
}

// New builds a limiter with per-source limits and a fallback for any
// source absent from the map. A non-positive fallback RPS or burst is
// coerced so an empty configuration never blocks forever.
func New(fallback Limit, perSource map[string]Limit) *SourceLimiter {
	if fallback.RPS <= 0 {
		fallback.RPS = 10
	}
	if fallback.Burst <= 0 {
		fallback.Burst = 20
	}
	limits := make(map[string]Limit, len(perSource))
	for source, limit := range perSource {
		if limit.RPS <= 0 {
			limit.RPS = fallback.RPS
		}
		if limit.Burst <= 0 {
			limit.Burst = fallback.Burst
		}
		limits[source] = limit
	}
	return &SourceLimiter{
		limiters: make(map[string]*rate.Limiter, len(limits)),
		limits:   limits,
		fallback: fallback,
	}
}

// LimitFor reports the configured limit for a source, falling back when
// the source has no entry.
func (l *SourceLimiter) LimitFor(source string) Limit {
	if limit, ok := l.limits[source]; ok {
		return limit
	}
	return l.fallback
}

// Wait blocks until the source's bucket permits one call or the context
// ends.
func (l *SourceLimiter) Wait(ctx context.Context, source string) error {
	return l.limiterFor(source).Wait(ctx)
}

func (l *SourceLimiter) limiterFor(source string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[source]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok = l.limiters[source]; ok {
		return limiter
	}
	limit := l.LimitFor(source)
	limiter = rate.NewLimiter(rate.Limit(limit.RPS), limit.Burst)
	l.limiters[source] = limiter
	return limiter
}

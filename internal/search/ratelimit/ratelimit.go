// Package ratelimit provides per-key request limiting for the HTTP
// surface, keyed by client IP.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out a token-bucket limiter per key.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	done     chan struct{}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a Limiter allowing n requests per window, with a burst of
// n.
func New(n int, window time.Duration) *Limiter {
	l := &Limiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(float64(n) / window.Seconds()),
		burst:    n,
		done:     make(chan struct{}),
	}

	go l.cleanup()

	return l
}

// Close stops the background cleanup goroutine.
func (l *Limiter) Close() {
	close(l.done)
}

// Allow reports whether a request for the given key may proceed.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = time.Now()
	l.mu.Unlock()

	return e.limiter.Allow()
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-10 * time.Minute)
			for key, e := range l.limiters {
				if e.lastSeen.Before(cutoff) {
					delete(l.limiters, key)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

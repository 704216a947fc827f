// Package cache provides in-memory caching of search results with TTL
// and request collapsing, so a burst of identical searches performs one
// provider fan-out.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kthandra777/hotelfinder-pro/internal/providers"
	"github.com/kthandra777/hotelfinder-pro/internal/search"
)

// Cache stores ranked search results keyed by search parameters.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	ttl      time.Duration
	inflight map[string]*inflightRequest
	done     chan struct{}
}

type cacheEntry struct {
	result    *search.Result
	expiresAt time.Time
}

type inflightRequest struct {
	done   chan struct{}
	result *search.Result
	err    error
}

// NewCache creates a Cache with the specified TTL.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		entries:  make(map[string]*cacheEntry),
		ttl:      ttl,
		inflight: make(map[string]*inflightRequest),
		done:     make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// Close stops the background cleanup goroutine.
func (c *Cache) Close() {
	close(c.done)
}

// Key derives a cache key from search parameters. Rounds is part of the
// key because a deeper session yields a different result set.
func Key(params providers.Params, rounds int) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d",
		strings.ToLower(params.Location),
		params.CheckInDate(), params.CheckOutDate(),
		params.Adults, rounds)
}

// GetOrFetch retrieves a cached result or executes the fetch function.
// Concurrent requests for the same key are collapsed onto one fetch.
// The boolean reports whether the result came from the cache.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func() (*search.Result, error)) (*search.Result, bool, error) {
	c.mu.Lock()

	if entry, ok := c.entries[key]; ok && time.Now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.result, true, nil
	}

	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.result, false, inflight.err
		case <-ctx.Done():
			return nil, false, context.Cause(ctx)
		}
	}

	inflight := &inflightRequest{
		done: make(chan struct{}),
	}
	c.inflight[key] = inflight
	c.mu.Unlock()

	// Fetch outside the lock.
	result, err := fetch()

	c.mu.Lock()
	inflight.result = result
	inflight.err = err
	if err == nil && result != nil {
		c.entries[key] = &cacheEntry{
			result:    result,
			expiresAt: time.Now().Add(c.ttl),
		}
	}
	delete(c.inflight, key)
	c.mu.Unlock()

	close(inflight.done)

	return result, false, err
}

// Invalidate removes a specific key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

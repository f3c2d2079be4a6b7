package cache

import (
	"context"
	"sync"
	"time"
)

// SummaryCache stores serialized report summaries. Misses are cheap, so
// implementations may evict freely; writers invalidate after every ledger
// mutation.
type SummaryCache interface {
	// Get returns the cached value for key, or false on a miss
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value under key with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// DeleteAll drops every cached summary
	DeleteAll(ctx context.Context)
}

// summaryEntry represents a cached summary with expiration
type summaryEntry struct {
	value     []byte
	expiresAt time.Time
}

// InMemorySummaryCache implements SummaryCache with a process-local map.
// Suitable for single-instance deployments and testing.
type InMemorySummaryCache struct {
	mu      sync.RWMutex
	entries map[string]summaryEntry
}

// NewInMemorySummaryCache creates a new in-memory summary cache
func NewInMemorySummaryCache() *InMemorySummaryCache {
	return &InMemorySummaryCache{
		entries: make(map[string]summaryEntry),
	}
}

// Get returns the cached value for key, or false on a miss
func (c *InMemorySummaryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores a value under key with a TTL
func (c *InMemorySummaryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = summaryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// DeleteAll drops every cached summary
func (c *InMemorySummaryCache) DeleteAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]summaryEntry)
}

// Ensure InMemorySummaryCache implements SummaryCache
var _ SummaryCache = (*InMemorySummaryCache)(nil)

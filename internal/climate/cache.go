package climate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"solar-estimator/internal/model"
)

type cacheEntry struct {
	climate   *model.Climate
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache of climate lookups, used by the
// API server in front of the disk cache.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

// NewMemoryCache starts a cache whose expired entries are swept every
// sweepEvery until ctx is done.
func NewMemoryCache(ctx context.Context, ttl, sweepEvery time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &MemoryCache{
		store: make(map[string]*cacheEntry),
		ttl:   ttl,
	}
	if sweepEvery > 0 {
		go c.sweep(ctx, sweepEvery)
	}
	return c
}

// Get returns a copy of a cached climate if present and not expired.
func (c *MemoryCache) Get(place string) (*model.Climate, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[CacheKey(place)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	out := *entry.climate
	return &out, true
}

func (c *MemoryCache) Set(place string, climate *model.Climate) {
	if c == nil || climate == nil {
		return
	}
	stored := *climate

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[CacheKey(place)] = &cacheEntry{
		climate:   &stored,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*cacheEntry)
}

func (c *MemoryCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *MemoryCache) sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *MemoryCache) removeExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

// WithMemoryCache serves repeated places from cache.
func WithMemoryCache(cache *MemoryCache, rec MetricsRecorder) Middleware {
	if rec == nil {
		rec = NopMetricsRecorder{}
	}
	return func(next Provider) Provider {
		return ProviderFunc(func(ctx context.Context, place string) (*model.Climate, error) {
			if cached, ok := cache.Get(place); ok {
				rec.ObserveCacheLookup("memory", true)
				return cached, nil
			}
			rec.ObserveCacheLookup("memory", false)

			c, err := next.FetchClimate(ctx, place)
			if err != nil {
				return nil, err
			}
			cache.Set(place, c)
			return c, nil
		})
	}
}

// CacheKey hashes the normalized place so that "fortaleza,  ce" and
// "Fortaleza, CE" share an entry.
func CacheKey(place string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(place), " "))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

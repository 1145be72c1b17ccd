package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is used when a non-positive TTL is supplied.
const DefaultTTL = 15 * time.Minute

// DefaultLoadTimeout bounds a shared load when none is configured.
const DefaultLoadTimeout = 2 * time.Minute

// Entry is a stored value together with the time it was stored.
type Entry[V any] struct {
	// StoredAt is the timestamp of the Set call that produced this entry.
	StoredAt time.Time
	// Value is the cached value.
	Value V
}

// Cache is a TTL cache safe for concurrent use.
type Cache[V any] struct {
	mu          sync.RWMutex
	entries     map[string]Entry[V]
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	sf          singleflight.Group
}

// Option customizes a Cache.
type Option[V any] func(*Cache[V])

// WithClock replaces time.Now, mostly for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.now = now
	}
}

// WithLoadTimeout bounds each GetOrLoad load call.
func WithLoadTimeout[V any](d time.Duration) Option[V] {
	return func(c *Cache[V]) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// New creates an empty cache with the given TTL.
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache[V]{
		entries:     make(map[string]Entry[V]),
		ttl:         ttl,
		loadTimeout: DefaultLoadTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value for key if it exists and its age does not exceed the TTL.
// Stale entries are reported as misses and are never returned.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.expired(e) {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// Set stores value under key with the current timestamp, replacing any prior entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = Entry[V]{StoredAt: c.now(), Value: value}
	c.mu.Unlock()
}

// Invalidate removes the entry for key immediately.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll clears every entry.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]Entry[V])
	c.mu.Unlock()
}

// Len returns the number of entries that have not expired.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.entries {
		if !c.expired(e) {
			n++
		}
	}
	return n
}

// GetOrLoad returns the cached value for key or calls load on a miss.
// Concurrent misses for the same key share a single load call.
// A successful load is stored; errors are returned and never cached.
// The bool result reports whether the value came from the cache.
//
// The load is detached from the caller's cancellation and bounded by the load
// timeout instead, so a caller that gives up does not fail the others waiting
// on the same key. Each caller still returns as soon as its own ctx is done.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, bool, error) {
	var zero V
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	ch := c.sf.DoChan(key, func() (any, error) {
		// Double-check after acquiring the singleflight slot
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		v, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, false, context.Cause(ctx)
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		v, _ := res.Val.(V)
		return v, false, nil
	}
}

func (c *Cache[V]) expired(e Entry[V]) bool {
	return c.now().Sub(e.StoredAt) > c.ttl
}

// Config holds configuration for the feed cache.
type Config struct {
	// TTLMinutes is the maximum age of a cached entry.
	TTLMinutes int `mapstructure:"ttl_minutes" default:"15"`
	// LoadTimeoutSeconds bounds a shared feed load.
	LoadTimeoutSeconds int `mapstructure:"load_timeout_seconds" default:"120"`
}

// TTL returns the configured entry lifetime, defaulting to DefaultTTL.
func (c Config) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return DefaultTTL
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

// LoadTimeout returns the shared load bound, defaulting to DefaultLoadTimeout.
func (c Config) LoadTimeout() time.Duration {
	if c.LoadTimeoutSeconds <= 0 {
		return DefaultLoadTimeout
	}
	return time.Duration(c.LoadTimeoutSeconds) * time.Second
}

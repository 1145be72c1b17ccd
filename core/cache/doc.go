// Package cache provides a small TTL cache keyed by string.
//
// It backs the feed cache that shields the upstream tournament feed from
// redundant polling. Entries expire by age only; there is no eviction
// pressure because the number of keys (one per registered team) is small.
//
// # Concurrency
//
// All operations are guarded by a RWMutex and are safe to call from
// concurrent sync passes. GetOrLoad additionally collapses concurrent misses
// for the same key with singleflight so a stalled upstream is only asked once.
//
// # Usage
//
//	c := cache.New[[]models.RawRecord](15 * time.Minute)
//	if records, ok := c.Get("lichess-swiss"); ok {
//	    // fresh hit
//	}
//	c.Set("lichess-swiss", records)
//	c.Invalidate("lichess-swiss")
package cache

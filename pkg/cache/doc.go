// Package cache provides a generic, thread-safe LRU (Least Recently Used)
// cache with an optional per-entry TTL.
//
// The cache evicts the least recently used item once it reaches its
// configured capacity, which keeps memory bounded no matter how many distinct
// keys pass through it. It backs the decode and product caches elsewhere in
// this module but has no dependency on them.
//
// # Usage
//
// Create a cache with a fixed capacity:
//
//	c := cache.NewLRUCache[string, int](100)
//	c.Put("a", 1)
//	v, ok := c.Get("a") // marks "a" as recently used
//
// Items are considered recently used when retrieved with Get or stored with
// Put. When capacity is exceeded the entry that has gone longest without
// either is dropped.
//
// # TTL
//
// NewLRUCacheWithTTL stamps every stored entry with a deadline. Expired
// entries are treated as absent and removed lazily by the access that finds
// them; there is no background goroutine to stop or Close:
//
//	c := cache.NewLRUCacheWithTTL[string, *Product](100, 5*time.Minute)
//
// Put restarts the TTL for an existing key.
//
// # Cleanup
//
// For values that hold resources, register a callback invoked whenever an
// entry leaves the cache (capacity eviction, expiry, Remove, Clear):
//
//	c.SetEvictCallback(func(key string, db *sql.DB) {
//		db.Close()
//	})
//
// # Thread Safety
//
// All operations take an internal mutex and are safe for concurrent use.
// Get, Put, and Remove are O(1).
package cache

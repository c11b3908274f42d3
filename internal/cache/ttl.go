// Package cache provides the TTL-keyed cache used by every cache site in the
// service (resolver results, autocomplete suggestions, per-domain condition
// snapshots).
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTL is a typed wrapper around go-cache. The cleanup interval is zero, so
// expired entries are not proactively evicted; they are treated as absent on
// read and refetched by the caller.
type TTL[V any] struct {
	c *gocache.Cache
}

// New creates a cache whose entries expire ttl after insertion.
func New[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{c: gocache.New(ttl, 0)}
}

// Get returns the cached value for key if present and not expired.
func (t *TTL[V]) Get(key string) (V, bool) {
	v, ok := t.c.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	typed, ok := v.(V)
	if !ok {
		var zero V
		return zero, false
	}
	return typed, true
}

// Set stores value under key with the cache's default TTL.
func (t *TTL[V]) Set(key string, value V) {
	t.c.SetDefault(key, value)
}

// SetWithTTL stores value under key with an explicit TTL.
func (t *TTL[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	t.c.Set(key, value, ttl)
}

// Len reports the number of entries, including not-yet-evicted expired ones.
func (t *TTL[V]) Len() int {
	return t.c.ItemCount()
}

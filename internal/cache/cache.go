// Package cache provides a small injected lookup cache so services never
// hold module-level mutable state.
package cache

import (
	"time"

	"github.com/coocood/freecache"
)

// Cache is a string key/value cache with a fixed per-entry TTL.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

type freecacheCache struct {
	inner      *freecache.Cache
	ttlSeconds int
}

// NewFreecache returns an in-process cache of the given size in megabytes.
func NewFreecache(sizeMB int, ttl time.Duration) Cache {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return &freecacheCache{
		inner:      freecache.NewCache(sizeMB * 1024 * 1024),
		ttlSeconds: int(ttl.Seconds()),
	}
}

func (c *freecacheCache) Get(key string) (string, bool) {
	val, err := c.inner.Get([]byte(key))
	if err != nil {
		return "", false
	}
	return string(val), true
}

func (c *freecacheCache) Set(key, value string) {
	// freecache evicts on overflow; a failed set only costs a re-lookup.
	_ = c.inner.Set([]byte(key), []byte(value), c.ttlSeconds)
}

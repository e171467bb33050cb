package names

import (
	gocache "github.com/patrickmn/go-cache"
)

// Cached memoizes another Normalizer. Index builds normalize every registry
// name once and the cascade re-normalizes incoming names, so hits are common.
type Cached struct {
	inner Normalizer
	cache *gocache.Cache
}

// NewCached wraps inner. Entries never expire for the lifetime of the process.
func NewCached(inner Normalizer) *Cached {
	if inner == nil {
		inner = Default{}
	}
	return &Cached{
		inner: inner,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// SearchKeys implements Normalizer.
func (c *Cached) SearchKeys(name string) []string {
	if v, found := c.cache.Get(name); found {
		if keys, ok := v.([]string); ok {
			return append([]string(nil), keys...)
		}
	}
	keys := c.inner.SearchKeys(name)
	c.cache.Set(name, keys, gocache.NoExpiration)
	return append([]string(nil), keys...)
}

// Len reports how many distinct names have been normalized.
func (c *Cached) Len() int { return c.cache.ItemCount() }

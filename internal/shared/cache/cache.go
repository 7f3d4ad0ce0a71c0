package cache

import (
	"github.com/coocood/freecache"
)

// Cache is a byte cache keyed by string.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Clear()
}

type FreeCache struct {
	cache *freecache.Cache
	ttl   int
}

// New returns a freecache of sizeMB megabytes, or a no-op cache when sizeMB is not positive.
// ttlSeconds of 0 keeps entries until evicted.
func New(sizeMB int, ttlSeconds int) Cache {
	if sizeMB <= 0 {
		return &noopCache{}
	}
	return &FreeCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttlSeconds,
	}
}

func (c *FreeCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *FreeCache) Set(key string, value []byte) {
	_ = c.cache.Set([]byte(key), value, c.ttl)
}

func (c *FreeCache) Clear() {
	c.cache.Clear()
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) Clear()                      {}

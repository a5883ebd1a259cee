package texture

import (
	"image"
	"sync"
)

// Resolver resolves a texture name to a decoded image.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache keyed by resolved path.
// Batch workers share one Cache.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]*image.NRGBA
	finder *Finder
}

// NewCache creates a cache that looks files up through finder.
func NewCache(finder *Finder) *Cache {
	return &Cache{
		items:  make(map[string]*image.NRGBA),
		finder: finder,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found or
// undecodable; failed loads are cached too.
func (c *Cache) Resolve(name string) *image.NRGBA {
	path, ok := c.finder.Find(name, ImageExts)
	if !ok {
		return nil
	}

	c.mu.RLock()
	if img, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return img
	}
	c.mu.RUnlock()

	img, _ := Load(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, exists := c.items[path]; exists {
		return existing
	}
	c.items[path] = img
	return img
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

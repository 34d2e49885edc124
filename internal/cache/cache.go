package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/JustJay7/court-case-resolver/internal/database"
)

// Cache is an in-memory hot cache of resolved cases, consulted before
// the durable store. Keys are case fingerprints.
type Cache interface {
	Get(key string) (*database.CourtCase, bool)
	Set(key string, value *database.CourtCase)
	Delete(key string)
	Clear()
	Stats() Stats
}

type Stats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

type memoryCache struct {
	cache   *cache.Cache
	mu      sync.Mutex
	stats   Stats
	maxSize int
}

func New(maxSize int, ttl time.Duration) Cache {
	return &memoryCache{
		cache:   cache.New(ttl, ttl*2),
		maxSize: maxSize,
	}
}

func (c *memoryCache) Get(key string) (*database.CourtCase, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(key); found {
		if courtCase, ok := data.(*database.CourtCase); ok {
			c.stats.Hits++
			return courtCase, true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *memoryCache) Set(key string, value *database.CourtCase) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.ItemCount() >= c.maxSize {
		c.removeOldest()
	}
	c.cache.Set(key, value, cache.DefaultExpiration)
}

func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(key)
}

func (c *memoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.stats = Stats{}
}

func (c *memoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Size = c.cache.ItemCount()
	return c.stats
}

// removeOldest evicts the entry closest to expiry
func (c *memoryCache) removeOldest() {
	items := c.cache.Items()
	if len(items) == 0 {
		return
	}

	var oldestKey string
	var oldestExpiry int64
	for key, item := range items {
		if oldestKey == "" || item.Expiration < oldestExpiry {
			oldestKey = key
			oldestExpiry = item.Expiration
		}
	}

	if oldestKey != "" {
		c.cache.Delete(oldestKey)
	}
}

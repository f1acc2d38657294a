package senfi

import (
	"strings"
	"sync"
	"time"
)

const defaultCacheTTL = 5 * time.Minute

// Cache stores results of read-only calls between requests. It is shared by
// concurrent calls on a Client.
type Cache interface {
	Get(key string) (any, bool)
	// Set stores value for ttl. A ttl of zero or less keeps the value until
	// it is deleted.
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Clear()
}

type memoryItem struct {
	value    any
	deadline time.Time // zero for items without a ttl
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.deadline.IsZero() && !now.Before(i.deadline)
}

// MemoryCache is the in-process Cache installed by DefaultCacheConfig.
// Expired items are dropped when read or by Prune.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem), now: time.Now}
}

func (m *MemoryCache) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if item.expired(m.now()) {
		delete(m.items, key)
		return nil, false
	}
	return item.value, true
}

func (m *MemoryCache) Set(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryItem{value: value}
	if ttl > 0 {
		item.deadline = m.now().Add(ttl)
	}
	m.items[key] = item
}

func (m *MemoryCache) Delete(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

func (m *MemoryCache) Clear() {
	m.mu.Lock()
	clear(m.items)
	m.mu.Unlock()
}

// Len reports the number of stored items, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Prune drops expired items and reports how many were dropped.
func (m *MemoryCache) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for key, item := range m.items {
		if item.expired(now) {
			delete(m.items, key)
			n++
		}
	}
	return n
}

// CacheConfig selects the cache and the lifetime of each cached result.
// Zero TTLs fall back to five minutes.
type CacheConfig struct {
	Cache Cache

	// SiteTTL applies to GetSites.
	SiteTTL time.Duration

	// AssetLookupTTL applies to successful GetAssetIDFromTag lookups.
	AssetLookupTTL time.Duration
}

// DefaultCacheConfig returns a MemoryCache-backed config with default TTLs.
func DefaultCacheConfig() *CacheConfig {
	return (&CacheConfig{}).withDefaults()
}

func (cfg *CacheConfig) withDefaults() *CacheConfig {
	if cfg.Cache == nil {
		cfg.Cache = NewMemoryCache()
	}
	if cfg.SiteTTL == 0 {
		cfg.SiteTTL = defaultCacheTTL
	}
	if cfg.AssetLookupTTL == 0 {
		cfg.AssetLookupTTL = defaultCacheTTL
	}
	return cfg
}

func (cfg *CacheConfig) ttl(resourceType string) time.Duration {
	if resourceType == "sites" {
		return cfg.SiteTTL
	}
	return cfg.AssetLookupTTL
}

// cacheKey joins a resource type and its identifiers with ':'.
func cacheKey(resourceType string, ids ...string) string {
	return strings.Join(append([]string{resourceType}, ids...), ":")
}

// WithCache caches the site list and tag lookups. Failed calls are not
// stored, and a successful Initialize empties the cache.
//
// Example:
//
//	client := senfi.New(senfi.WithCache(senfi.DefaultCacheConfig()))
func WithCache(config *CacheConfig) Option {
	return func(c *Client) {
		if config == nil {
			config = &CacheConfig{}
		}
		c.cacheConfig = config.withDefaults()
	}
}

// cached serves resourceType/ids from the cache, calling fetch on a miss.
// A fetched value is stored when it has no error and keep (if set) accepts it.
func cached[T any](c *Client, fetch func() (T, error), keep func(T) bool, resourceType string, ids ...string) (T, error) {
	cfg := c.cacheConfig
	if cfg == nil || cfg.Cache == nil {
		return fetch()
	}

	key := cacheKey(resourceType, ids...)
	if v, ok := cfg.Cache.Get(key); ok {
		if hit, ok := v.(T); ok {
			return hit, nil
		}
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}
	if keep == nil || keep(v) {
		cfg.Cache.Set(key, v, cfg.ttl(resourceType))
	}
	return v, nil
}

func (c *Client) clearCache() {
	if c.cacheConfig != nil && c.cacheConfig.Cache != nil {
		c.cacheConfig.Cache.Clear()
	}
}

// InvalidateCache drops one cached result: "sites" for the site list, or
// "asset_tag" with the measurement code and tag key of a lookup.
func (c *Client) InvalidateCache(resourceType string, ids ...string) {
	if c.cacheConfig != nil && c.cacheConfig.Cache != nil {
		c.cacheConfig.Cache.Delete(cacheKey(resourceType, ids...))
	}
}

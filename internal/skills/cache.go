package skills

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/novakeep/stakevault/internal/domain"
)

// CacheConfig controls profile cache sizing and expiry
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the standard cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: DefaultCacheSize, TTL: DefaultCacheTTL}
}

// CacheStats reports cache effectiveness counters
type CacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

// cachedProfileEntry wraps a profile with version metadata for cache invalidation
type cachedProfileEntry struct {
	Version  string
	Profile  *domain.SkillProfile
	CachedAt time.Time
}

// profileCache provides an in-memory LRU cache for derived skill profiles
// with time-based expiration and version-based invalidation. Writes through
// the registry invalidate entries so reward math never sees stale boosts
// longer than the TTL.
type profileCache struct {
	lru    *expirable.LRU[string, *cachedProfileEntry]
	hits   atomic.Int64
	misses atomic.Int64
}

func newProfileCache(cfg CacheConfig) *profileCache {
	return &profileCache{
		lru: expirable.NewLRU[string, *cachedProfileEntry](cfg.Size, nil, cfg.TTL),
	}
}

// Get retrieves a profile from the cache.
// Returns (nil, false) if not cached, expired, or from an older schema version.
func (c *profileCache) Get(accountID string) (*domain.SkillProfile, bool) {
	entry, found := c.lru.Get(accountID)
	if !found {
		c.misses.Add(1)
		return nil, false
	}

	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(accountID)
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return entry.Profile, true
}

// Set stores a profile in the cache with the current schema version.
func (c *profileCache) Set(accountID string, profile *domain.SkillProfile) {
	c.lru.Add(accountID, &cachedProfileEntry{
		Version:  CacheSchemaVersion,
		Profile:  profile,
		CachedAt: time.Now(),
	})
}

// Invalidate removes an account's profile from the cache.
func (c *profileCache) Invalidate(accountID string) {
	c.lru.Remove(accountID)
}

// Clear removes all entries from the cache.
func (c *profileCache) Clear() {
	c.lru.Purge()
}

// GetStats returns hit/miss counters and the current entry count.
func (c *profileCache) GetStats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}

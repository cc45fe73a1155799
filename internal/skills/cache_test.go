package skills

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/novakeep/stakevault/internal/domain"
)

func TestProfileCacheInvalidation(t *testing.T) {
	// Setup
	config := CacheConfig{Size: 10, TTL: 1 * time.Minute}
	cache := newProfileCache(config)

	profile := &domain.SkillProfile{
		AccountID:    "acct-1",
		YieldBoostBP: 1500,
		RarityPct:    120,
		ActiveGrants: 1,
	}

	// 1. Set profile in cache
	cache.Set("acct-1", profile)

	// 2. Verify retrieval
	retrieved, found := cache.Get("acct-1")
	assert.True(t, found)
	assert.Equal(t, profile, retrieved)

	// 3. Invalidate
	cache.Invalidate("acct-1")

	// 4. Verify miss
	retrieved, found = cache.Get("acct-1")
	assert.False(t, found)
	assert.Nil(t, retrieved)
}

func TestProfileCacheStats(t *testing.T) {
	config := CacheConfig{Size: 10, TTL: 1 * time.Minute}
	cache := newProfileCache(config)

	profile := &domain.SkillProfile{
		AccountID: "acct-1",
		RarityPct: 100,
	}

	// Initial stats
	stats := cache.GetStats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
	assert.Equal(t, 0, stats.Size)

	// Miss
	cache.Get("acct-1")
	stats = cache.GetStats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	// Set and Hit
	cache.Set("acct-1", profile)
	cache.Get("acct-1")
	stats = cache.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestProfileCacheClear(t *testing.T) {
	config := CacheConfig{Size: 10, TTL: 1 * time.Minute}
	cache := newProfileCache(config)

	cache.Set("acct-1", &domain.SkillProfile{AccountID: "acct-1", RarityPct: 100})
	cache.Set("acct-2", &domain.SkillProfile{AccountID: "acct-2", RarityPct: 110})

	cache.Clear()

	_, found := cache.Get("acct-1")
	assert.False(t, found)
	_, found = cache.Get("acct-2")
	assert.False(t, found)
	assert.Equal(t, 0, cache.GetStats().Size)
}

func TestProfileCacheConfig(t *testing.T) {
	// Test Default
	cfg := DefaultCacheConfig()
	assert.Equal(t, 4096, cfg.Size)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

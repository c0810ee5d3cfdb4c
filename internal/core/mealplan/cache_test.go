package mealplan

import (
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		Enabled:         true,
		MaxSize:         2,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint(1, "days=1", "dietary=vegan")
	b := Fingerprint(1, "days=1", "dietary=vegan")
	assert.Equal(t, a, b)
}

func TestFingerprintSensitiveToVersionAndParts(t *testing.T) {
	base := Fingerprint(1, "days=1")
	assert.NotEqual(t, base, Fingerprint(2, "days=1"), "snapshot version participates")
	assert.NotEqual(t, base, Fingerprint(1, "days=2"))
	assert.NotEqual(t, Fingerprint(1, "ab", "c"), Fingerprint(1, "a", "bc"), "part boundaries matter")
}

func TestNewPlanCacheWithoutLoggerInit(t *testing.T) {
	saved := common.Logger
	common.Logger = nil
	defer func() { common.Logger = saved }()

	assert.NotPanics(t, func() {
		cache := NewPlanCache(testCacheConfig())
		cache.Close()
	})
}

func TestPlanCacheGetSet(t *testing.T) {
	cache := NewPlanCache(testCacheConfig())
	defer cache.Close()

	doc := sampleDocument()
	key := Fingerprint(1, "days=1")

	_, ok := cache.Get(key)
	assert.False(t, ok)

	cache.Set(key, doc)
	cached, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, doc, cached)
}

func TestPlanCacheEvictsLRU(t *testing.T) {
	cache := NewPlanCache(testCacheConfig()) // MaxSize=2
	defer cache.Close()

	doc := sampleDocument()
	cache.Set("a", doc)
	cache.Set("b", doc)
	_, _ = cache.Get("a") // a 變成最近使用
	cache.Set("c", doc)

	_, ok := cache.Get("a")
	assert.True(t, ok, "recently used entry survives")
	_, ok = cache.Get("c")
	assert.True(t, ok)
	_, ok = cache.Get("b")
	assert.False(t, ok, "least recently used entry evicted")
}

func TestPlanCacheDisabledIsNilSafe(t *testing.T) {
	cache := NewPlanCache(&config.CacheConfig{Enabled: false})
	require.Nil(t, cache)

	// nil 快取的所有操作都是 no-op
	cache.Set("key", sampleDocument())
	_, ok := cache.Get("key")
	assert.False(t, ok)
	cache.Close()
}

func TestPlanCacheExpiry(t *testing.T) {
	cfg := testCacheConfig()
	cfg.TTL = time.Millisecond
	cache := NewPlanCache(cfg)
	defer cache.Close()

	cache.Set("key", sampleDocument())
	time.Sleep(5 * time.Millisecond)

	_, ok := cache.Get("key")
	assert.False(t, ok, "expired entry must not be returned")
}

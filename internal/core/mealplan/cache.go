package mealplan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// PlanCache 計劃結果快取。組裝是決定性的：相同語料版本
// 加相同條件必得相同計劃，因此以請求指紋為鍵快取是安全的。
type PlanCache struct {
	config *config.CacheConfig
	mu     sync.RWMutex
	store  map[string]planCacheEntry
	stats  planCacheStats
}

// planCacheEntry 快取條目
type planCacheEntry struct {
	doc        *ExportDocument
	expiresAt  time.Time
	createdAt  time.Time
	lastAccess time.Time
}

// planCacheStats 快取統計
type planCacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewPlanCache 創建計劃快取；停用時回傳 nil，呼叫端需容忍
func NewPlanCache(cfg *config.CacheConfig) *PlanCache {
	if !cfg.Enabled {
		common.LogInfo("Plan cache disabled")
		return nil
	}

	c := &PlanCache{
		config: cfg,
		store:  make(map[string]planCacheEntry),
	}

	// 啟動清理過期條目的協程
	go c.startCleanup()

	common.LogInfo("計劃快取已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return c
}

// Fingerprint 計算請求指紋。語料版本參與雜湊，
// 評分寫入後舊的指紋自然失效。
func Fingerprint(snapshotVersion int64, parts ...string) string {
	h := sha256.New()
	fmt.Fprintf(h, "v%d", snapshotVersion)
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get 獲取快取的計劃結果
func (c *PlanCache) Get(key string) (*ExportDocument, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.store[key]
	if !exists {
		c.stats.misses++
		common.LogCacheMiss("plan", key)
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.store, key)
		c.stats.evictions++
		c.stats.misses++
		common.LogInfo("快取已過期", zap.String("鍵", key))
		return nil, false
	}

	entry.lastAccess = time.Now()
	c.store[key] = entry
	c.stats.hits++
	common.LogCacheHit("plan", key)
	return entry.doc, true
}

// Set 寫入快取的計劃結果
func (c *PlanCache) Set(key string, doc *ExportDocument) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 容量達上限時先清過期，仍滿則 LRU 淘汰
	if len(c.store) >= c.config.MaxSize {
		if c.cleanupLocked() == 0 {
			c.evictLRULocked()
		}
	}

	now := time.Now()
	c.store[key] = planCacheEntry{
		doc:        doc,
		expiresAt:  now.Add(c.config.TTL),
		createdAt:  now,
		lastAccess: now,
	}
}

// startCleanup 啟動清理過期條目的協程
func (c *PlanCache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		evicted := c.cleanupLocked()
		c.mu.Unlock()
		if evicted > 0 {
			common.LogInfo("快取清理執行", zap.Int("清理數量", evicted))
		}
	}
}

// cleanupLocked 清理過期條目，呼叫端須持有寫鎖
func (c *PlanCache) cleanupLocked() int {
	now := time.Now()
	count := 0
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			c.stats.evictions++
			count++
		}
	}
	return count
}

// evictLRULocked 淘汰最久未訪問的條目，呼叫端須持有寫鎖
func (c *PlanCache) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	for key, entry := range c.store {
		if oldestKey == "" || entry.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.lastAccess
		}
	}
	if oldestKey != "" {
		delete(c.store, oldestKey)
		c.stats.evictions++
		common.LogInfo("快取已淘汰(LRU)", zap.String("鍵", oldestKey))
	}
}

// Stats 獲取快取統計信息
func (c *PlanCache) Stats() map[string]interface{} {
	if c == nil {
		return map[string]interface{}{"enabled": false}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.hits + c.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(c.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"enabled":   true,
		"size":      len(c.store),
		"max_size":  c.config.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
		"hit_ratio": hitRatio,
	}
}

// Close 關閉快取
func (c *PlanCache) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]planCacheEntry)
	common.LogInfo("計劃快取已關閉",
		zap.Int64("命中次數", c.stats.hits),
		zap.Int64("未命中次數", c.stats.misses),
		zap.Int64("淘汰次數", c.stats.evictions),
	)
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store 計劃會話儲存。產生的計劃以 ID 保存，
// 後續匯出與交付用 ID 取回。啟用 Redis 時具 TTL，
// 停用時退回單機記憶體。
type Store struct {
	client *redis.Client
	config *config.SessionConfig

	mu     sync.RWMutex
	memory map[string]*mealplan.ExportDocument
}

// NewStore 創建計劃會話儲存
func NewStore(cfg *config.SessionConfig) (*Store, error) {
	if !cfg.Enabled {
		common.LogInfo("會話儲存使用記憶體模式")
		return &Store{
			config: cfg,
			memory: make(map[string]*mealplan.ExportDocument),
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("會話儲存使用 Redis", zap.String("addr", cfg.Addr))
	return &Store{
		client: client,
		config: cfg,
	}, nil
}

// Save 保存計劃文件
func (s *Store) Save(ctx context.Context, planID string, doc *mealplan.ExportDocument) error {
	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.memory[planID] = doc
		return nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	ttl := s.config.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := s.client.Set(ctx, s.key(planID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// Load 取回計劃文件，不存在時回 ErrPlanNotFound
func (s *Store) Load(ctx context.Context, planID string) (*mealplan.ExportDocument, error) {
	if s.client == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		doc, ok := s.memory[planID]
		if !ok {
			return nil, common.ErrPlanNotFound
		}
		return doc, nil
	}

	data, err := s.client.Get(ctx, s.key(planID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, common.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	var doc mealplan.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return &doc, nil
}

// Close 關閉底層連接
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) key(planID string) string {
	return fmt.Sprintf("meal:plan:%s", planID)
}

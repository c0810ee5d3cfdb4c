package mealplan

import (
	"context"
	"sync"
	"sync/atomic"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// RatingStore 評分寫入的儲存協作者
type RatingStore interface {
	RecordRating(ctx context.Context, recipeID int64, score int) error
}

// ratingRequest 隊列請求
type ratingRequest struct {
	ctx      context.Context
	recipeID int64
	score    int
	result   chan error
}

// RatingStatus 隊列狀態
type RatingStatus struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
}

// RatingQueue 評分寫入隊列。評分是唯一的共享可變狀態，
// 以單一寫入協程序列化附加操作，避免跨請求交錯。
type RatingQueue struct {
	store     RatingStore
	queue     chan *ratingRequest
	done      chan struct{}
	processed int64
	maxSize   int
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRatingQueue 創建評分隊列並啟動寫入協程
func NewRatingQueue(cfg *config.QueueConfig, store RatingStore) *RatingQueue {
	q := &RatingQueue{
		store:   store,
		queue:   make(chan *ratingRequest, cfg.MaxSize),
		done:    make(chan struct{}),
		maxSize: cfg.MaxSize,
	}

	q.wg.Add(1)
	go q.run()

	common.LogInfo("評分隊列已啟動",
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return q
}

// Enqueue 將評分寫入請求加入隊列並等待結果
func (q *RatingQueue) Enqueue(ctx context.Context, recipeID int64, score int) error {
	if score < 1 || score > 5 {
		return common.ErrInvalidRating
	}

	// 檢查隊列容量
	if len(q.queue) >= q.maxSize {
		return common.ErrQueueFull
	}

	req := &ratingRequest{
		ctx:      ctx,
		recipeID: recipeID,
		score:    score,
		result:   make(chan error, 1),
	}

	select {
	case q.queue <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return common.ErrServiceUnavailable
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run 單一寫入協程
func (q *RatingQueue) run() {
	defer q.wg.Done()
	for {
		select {
		case req := <-q.queue:
			err := q.store.RecordRating(req.ctx, req.recipeID, req.score)
			atomic.AddInt64(&q.processed, 1)
			if err != nil {
				common.LogError("評分寫入失敗",
					zap.Int64("recipe_id", req.recipeID),
					zap.Int("score", req.score),
					zap.Error(err),
				)
			}
			req.result <- err
		case <-q.done:
			return
		}
	}
}

// Status 獲取隊列狀態
func (q *RatingQueue) Status() RatingStatus {
	return RatingStatus{
		QueueLength:    len(q.queue),
		ProcessedCount: int(atomic.LoadInt64(&q.processed)),
		MaxQueueSize:   q.maxSize,
	}
}

// Close 關閉隊列並等待寫入協程結束。
// 已入列但尚未處理的請求會收到 ErrServiceUnavailable，
// 不會讓呼叫端卡到 context 逾時。
func (q *RatingQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
		q.wg.Wait()
		for {
			select {
			case req := <-q.queue:
				req.result <- common.ErrServiceUnavailable
			default:
				return
			}
		}
	})
}

package mealplan

import (
	"context"
	"sync"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRatingStore 記錄寫入順序的假儲存
type fakeRatingStore struct {
	mu      sync.Mutex
	records []int64
	fail    error
}

func (f *fakeRatingStore) RecordRating(ctx context.Context, recipeID int64, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.records = append(f.records, recipeID)
	return nil
}

func newTestQueue(store RatingStore) *RatingQueue {
	return NewRatingQueue(&config.QueueConfig{MaxSize: 10}, store)
}

func TestRatingQueueEnqueue(t *testing.T) {
	store := &fakeRatingStore{}
	q := newTestQueue(store)
	defer q.Close()

	require.NoError(t, q.Enqueue(context.Background(), 1, 5))
	require.NoError(t, q.Enqueue(context.Background(), 2, 3))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, []int64{1, 2}, store.records, "writes applied in submission order")
}

func TestRatingQueueRejectsInvalidScore(t *testing.T) {
	store := &fakeRatingStore{}
	q := newTestQueue(store)
	defer q.Close()

	assert.Error(t, q.Enqueue(context.Background(), 1, 0))
	assert.Error(t, q.Enqueue(context.Background(), 1, 6))
	assert.Error(t, q.Enqueue(context.Background(), 1, -1))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.records, "invalid scores never reach the store")
}

func TestRatingQueuePropagatesStoreError(t *testing.T) {
	store := &fakeRatingStore{fail: assert.AnError}
	q := newTestQueue(store)
	defer q.Close()

	err := q.Enqueue(context.Background(), 1, 4)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRatingQueueConcurrentWrites(t *testing.T) {
	store := &fakeRatingStore{}
	q := newTestQueue(store)
	defer q.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, q.Enqueue(context.Background(), id, 4))
		}(int64(i + 1))
	}
	wg.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.records, 8, "every concurrent write lands exactly once")
}

// blockingRatingStore 第一次寫入會卡住直到 release 關閉
type blockingRatingStore struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingRatingStore) RecordRating(ctx context.Context, recipeID int64, score int) error {
	b.once.Do(func() {
		close(b.started)
		<-b.release
	})
	return nil
}

func TestRatingQueueCloseReleasesPending(t *testing.T) {
	store := &blockingRatingStore{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	q := newTestQueue(store)

	first := make(chan error, 1)
	go func() { first <- q.Enqueue(context.Background(), 1, 5) }()
	<-store.started

	// 第二筆停在隊列裡，寫入協程還卡在第一筆
	second := make(chan error, 1)
	go func() { second <- q.Enqueue(context.Background(), 2, 4) }()
	require.Eventually(t, func() bool { return q.Status().QueueLength == 1 },
		time.Second, 5*time.Millisecond)

	closed := make(chan struct{})
	go func() {
		q.Close()
		close(closed)
	}()
	close(store.release)

	select {
	case err := <-first:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first enqueue did not return")
	}

	// 已入列的請求不能被留到 context 逾時：
	// 若寫入協程先收到 done，Close 的排空會回覆 ErrServiceUnavailable
	select {
	case err := <-second:
		if err != nil {
			assert.ErrorIs(t, err, common.ErrServiceUnavailable)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("queued enqueue was left waiting after Close")
	}

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}

func TestRatingQueueStatus(t *testing.T) {
	q := newTestQueue(&fakeRatingStore{})
	defer q.Close()

	require.NoError(t, q.Enqueue(context.Background(), 1, 5))

	status := q.Status()
	assert.Equal(t, 10, status.MaxQueueSize)
	assert.Equal(t, 1, status.ProcessedCount)
}

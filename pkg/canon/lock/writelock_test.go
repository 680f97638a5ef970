package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/lock"
)

func TestWriteLockHoldsInFIFOOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	queue := lock.NewMemoryQueue()
	seed := lock.New("backfill", queue)
	require.NoError(t, seed.ColdStart(ctx))

	const n = 5
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		i := i
		w := lock.New("backfill", queue)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := w.Hold(ctx, func(ctx context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
		time.Sleep(5 * time.Millisecond) // bias goroutines to queue in launch order
	}

	wg.Wait()
	require.Len(t, order, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, i, order[i], "holders should run in the order they queued")
	}
}

func TestWriteLockRejectsForeignToken(t *testing.T) {
	queue := lock.NewMemoryQueue()
	require.NoError(t, queue.PushBack(context.Background(), lock.Token{Name: "other", Position: 0}))

	w := lock.New("backfill", queue)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Acquire(ctx), lock.ErrWrongLock)
}

func TestMemoryQueuePopFrontRespectsContext(t *testing.T) {
	queue := lock.NewMemoryQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := queue.PopFront(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

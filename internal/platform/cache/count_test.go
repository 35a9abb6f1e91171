package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWithoutRedis(t *testing.T) {
	var calls atomic.Int64
	c := NewCount("users", nil, 0, nil, func(context.Context) (int64, error) {
		calls.Add(1)
		return 7, nil
	})

	n, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	// No store means every sequential call hits the fetch function.
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestGetPropagatesFetchError(t *testing.T) {
	wantErr := errors.New("database is down")
	c := NewCount("polls", nil, 0, nil, func(context.Context) (int64, error) {
		return 0, wantErr
	})

	_, err := c.Get(context.Background())
	require.ErrorIs(t, err, wantErr)
}

func TestGetCollapsesConcurrentCallers(t *testing.T) {
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	c := NewCount("guesses", nil, 0, nil, func(context.Context) (int64, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return 3, nil
	})

	const workers = 8
	var wg sync.WaitGroup
	results := make([]int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := c.Get(context.Background())
			assert.NoError(t, err)
			results[i] = n
		}(i)
	}

	// Hold the first fetch open until the rest of the callers have had a
	// chance to pile up behind it.
	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, n := range results {
		assert.Equal(t, int64(3), n)
	}
	assert.Less(t, calls.Load(), int64(workers))
}

func TestInvalidateWithoutRedisIsNoop(t *testing.T) {
	c := NewCount("users", nil, 0, nil, func(context.Context) (int64, error) { return 0, nil })
	c.Invalidate(context.Background())
}

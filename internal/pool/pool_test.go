package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool(t *testing.T) {
	t.Parallel()
	var jobCount int64

	p := NewPool(context.Background(), 10)
	for i := 0; i < 100; i++ {
		p.Go(func(ctx context.Context) error {
			atomic.AddInt64(&jobCount, 1)
			return nil
		})
	}

	assert.Nil(t, p.Wait())
	assert.Equal(t, int64(100), atomic.LoadInt64(&jobCount))
}

func TestPool_Limit(t *testing.T) {
	t.Parallel()
	var running, peak int64

	err := Each(context.Background(), 3, 50, func(ctx context.Context, i int) error {
		n := atomic.AddInt64(&running, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
				break
			}
		}
		atomic.AddInt64(&running, -1)
		return nil
	})

	assert.Nil(t, err)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(3))
}

func TestEach_Error(t *testing.T) {
	t.Parallel()
	errBoom := errors.New("boom")

	err := Each(context.Background(), 2, 10, func(ctx context.Context, i int) error {
		if i == 4 {
			return errBoom
		}
		return nil
	})

	assert.ErrorIs(t, err, errBoom)
}

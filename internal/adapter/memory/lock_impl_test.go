package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/dataset-explorer/internal/repository"
)

func TestAcquire_Exclusive(t *testing.T) {
	l := NewLock()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "ws")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestAcquire_ContextEnds(t *testing.T) {
	l := NewLock()
	release, err := l.Acquire(context.Background(), "ws")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "ws")

	assert.ErrorIs(t, err, repository.ErrLockHeld)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAcquire_KeysAreIndependent(t *testing.T) {
	l := NewLock()
	release, err := l.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	other, err := l.Acquire(ctx, "b")
	require.NoError(t, err)
	other()
}

func TestRelease_Idempotent(t *testing.T) {
	l := NewLock()
	release, err := l.Acquire(context.Background(), "ws")
	require.NoError(t, err)
	release()
	release()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	again, err := l.Acquire(ctx, "ws")
	require.NoError(t, err)
	again()
}

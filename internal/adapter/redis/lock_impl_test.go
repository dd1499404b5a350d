package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/repository"
)

// newTestLock creates a LockImpl backed by miniredis.
func newTestLock(t *testing.T, ttl time.Duration) (*LockImpl, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { client.Close() })
	l := NewLock(client, ttl, zap.NewNop())
	l.retry = 5 * time.Millisecond
	return l, mini
}

func TestGenerateKey(t *testing.T) {
	l := NewLock(nil, time.Minute, zap.NewNop())

	key := l.generateKey("static/visualizations")

	assert.True(t, strings.HasPrefix(key, lockKeyPrefix))
	assert.Len(t, key, len(lockKeyPrefix)+64)
	assert.Equal(t, key, l.generateKey("static/visualizations"))
	assert.NotEqual(t, key, l.generateKey("other"))
}

func TestAcquire_SetsKeyWithTTL(t *testing.T) {
	l, mini := newTestLock(t, time.Minute)

	release, err := l.Acquire(context.Background(), "workspace")
	require.NoError(t, err)

	key := l.generateKey("workspace")
	assert.True(t, mini.Exists(key))
	assert.Equal(t, time.Minute, mini.TTL(key))

	release()
	assert.False(t, mini.Exists(key))
}

func TestAcquire_WaitsForHolder(t *testing.T) {
	l, _ := newTestLock(t, time.Minute)
	release, err := l.Acquire(context.Background(), "workspace")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "workspace")
	assert.ErrorIs(t, err, repository.ErrLockHeld)

	release()
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	again, err := l.Acquire(ctx2, "workspace")
	require.NoError(t, err)
	again()
}

func TestRelease_DoesNotDropForeignLock(t *testing.T) {
	l, mini := newTestLock(t, time.Minute)
	release, err := l.Acquire(context.Background(), "workspace")
	require.NoError(t, err)

	// the TTL lapses and another instance takes the lock
	key := l.generateKey("workspace")
	require.NoError(t, mini.Set(key, "someone-else"))

	release()

	got, err := mini.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestAcquire_ExpiredHolderIsReplaced(t *testing.T) {
	l, mini := newTestLock(t, time.Second)
	_, err := l.Acquire(context.Background(), "workspace")
	require.NoError(t, err)

	mini.FastForward(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	release, err := l.Acquire(ctx, "workspace")
	require.NoError(t, err)
	release()
}

func TestAcquire_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	l := NewLock(client, time.Minute, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	release, err := l.Acquire(ctx, "workspace")

	require.Error(t, err)
	assert.Nil(t, release)
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/repository"
	"github.com/user/dataset-explorer/pkg/utils"
)

const lockKeyPrefix = "dataset-explorer:lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockImpl is a WorkspaceLock shared by every instance that talks to the same Redis.
type LockImpl struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	logger *zap.Logger
}

// NewLock creates a Redis-backed lock. ttl bounds how long a crashed holder blocks others.
func NewLock(client *redis.Client, ttl time.Duration, logger *zap.Logger) *LockImpl {
	return &LockImpl{client: client, ttl: ttl, retry: 100 * time.Millisecond, logger: logger}
}

func (l *LockImpl) generateKey(key string) string {
	return lockKeyPrefix + utils.HashKey(key)
}

func (l *LockImpl) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := l.generateKey(key)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", repository.ErrLockHeld, ctxErr)
			}
			return nil, fmt.Errorf("acquiring lock %s: %w", key, err)
		}
		if ok {
			return func() { l.release(redisKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", repository.ErrLockHeld, ctx.Err())
		case <-ticker.C:
		}
	}
}

// release runs on its own context so a cancelled request still frees the lock.
func (l *LockImpl) release(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Warn("failed to release workspace lock", zap.String("key", redisKey), zap.Error(err))
	}
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/dataset-explorer/internal/repository"
)

// LockImpl is a process-local WorkspaceLock. Each key gets a one-slot semaphore.
type LockImpl struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLock() *LockImpl {
	return &LockImpl{slots: make(map[string]chan struct{})}
}

func (l *LockImpl) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

func (l *LockImpl) Acquire(ctx context.Context, key string) (func(), error) {
	s := l.slot(key)
	select {
	case s <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-s }) }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", repository.ErrLockHeld, ctx.Err())
	}
}

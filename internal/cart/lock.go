package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/semaphore"

	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/grocerylist-backend/pkg/redis"
)

const (
	lockScope       = "cart"
	defaultLockTTL  = 10 * time.Second
	defaultLockWait = 3 * time.Second
	lockPollEvery   = 25 * time.Millisecond
	releaseTimeout  = 2 * time.Second
)

// ErrLockTimeout is returned when the cart lock could not be acquired in time.
var ErrLockTimeout = errors.New("cart lock not acquired")

// RedisLocker implements Locker using Redis SETNX + TTL with an owner token.
type RedisLocker struct {
	store pkgredis.LockStore
	ttl   time.Duration
	wait  time.Duration
	logg  *logger.Logger
}

// NewRedisLocker constructs a Redis-backed cart locker.
func NewRedisLocker(store pkgredis.LockStore, ttl, wait time.Duration, logg *logger.Logger) (*RedisLocker, error) {
	if store == nil {
		return nil, errors.New("redis client required for lock")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &RedisLocker{store: store, ttl: ttl, wait: wait, logg: logg}, nil
}

// Lock polls SETNX until it owns the key or the wait budget is spent.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	owner := uuid.NewString()
	redisKey := l.store.LockKey(lockScope, key)

	backoff := retry.WithMaxDuration(l.wait, retry.NewConstant(lockPollEvery))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := l.store.SetNX(ctx, redisKey, owner, l.ttl)
		if err != nil {
			return fmt.Errorf("setnx: %w", err)
		}
		if !ok {
			return retry.RetryableError(ErrLockTimeout)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return func() { l.release(redisKey, owner) }, nil
}

// release frees the lock only if the owner value still matches.
func (l *RedisLocker) release(key, owner string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	value, err := l.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			l.logg.Error(l.logg.WithField(ctx, "lock_key", key), "cart.lock.release_failed", err)
		}
		return
	}
	if value != owner {
		return
	}
	if err := l.store.Del(ctx, key); err != nil {
		l.logg.Error(l.logg.WithField(ctx, "lock_key", key), "cart.lock.release_failed", err)
	}
}

// LocalLocker serializes mutations within a single process.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*localSlot
	wait  time.Duration
}

type localSlot struct {
	sem  *semaphore.Weighted
	refs int
}

// NewLocalLocker constructs an in-process keyed locker.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &LocalLocker{slots: make(map[string]*localSlot), wait: wait}
}

// Lock blocks until key is free, the wait budget is spent or ctx ends.
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	slot := l.acquireSlot(key)

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	if err := slot.sem.Acquire(waitCtx, 1); err != nil {
		l.releaseSlot(key)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrLockTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			slot.sem.Release(1)
			l.releaseSlot(key)
		})
	}, nil
}

func (l *LocalLocker) acquireSlot(key string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &localSlot{sem: semaphore.NewWeighted(1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *LocalLocker) releaseSlot(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[key]
	if !ok {
		return
	}
	slot.refs--
	if slot.refs <= 0 {
		delete(l.slots, key)
	}
}

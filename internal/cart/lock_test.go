package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLockStore struct {
	mu      sync.Mutex
	values  map[string]string
	setErr  error
	setCall int
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{values: make(map[string]string)}
}

func (f *fakeLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCall++
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeLockStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeLockStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeLockStore) LockKey(scope, id string) string {
	return "test:lock:" + scope + ":" + id
}

func (f *fakeLockStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.values[key]
	return ok
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	store := newFakeLockStore()
	locker, err := NewRedisLocker(store, time.Second, 200*time.Millisecond, nil)
	require.NoError(t, err)

	unlock, err := locker.Lock(context.Background(), "default_user")
	require.NoError(t, err)
	assert.True(t, store.has("test:lock:cart:default_user"))

	unlock()
	assert.False(t, store.has("test:lock:cart:default_user"))
}

func TestRedisLockerTimesOutWhenHeld(t *testing.T) {
	store := newFakeLockStore()
	store.values["test:lock:cart:busy"] = "someone-else"
	locker, err := NewRedisLocker(store, time.Second, 100*time.Millisecond, nil)
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), "busy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLockTimeout))
	assert.Greater(t, store.setCall, 1)
}

func TestRedisLockerReleaseKeepsForeignOwner(t *testing.T) {
	store := newFakeLockStore()
	locker, err := NewRedisLocker(store, time.Second, 100*time.Millisecond, nil)
	require.NoError(t, err)

	unlock, err := locker.Lock(context.Background(), "u1")
	require.NoError(t, err)

	// simulate TTL expiry followed by another owner taking the key
	store.values["test:lock:cart:u1"] = "other-owner"
	unlock()
	assert.True(t, store.has("test:lock:cart:u1"))
}

func TestRedisLockerSurfacesStoreErrors(t *testing.T) {
	store := newFakeLockStore()
	store.setErr = errors.New("connection refused")
	locker, err := NewRedisLocker(store, time.Second, 100*time.Millisecond, nil)
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), "u1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrLockTimeout))
	assert.Equal(t, 1, store.setCall)
}

func TestNewRedisLockerRequiresStore(t *testing.T) {
	_, err := NewRedisLocker(nil, 0, 0, nil)
	require.Error(t, err)
}

func TestLocalLockerSerializesSameKey(t *testing.T) {
	locker := NewLocalLocker(time.Second)
	var (
		inside  int32
		overlap int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "shared")
			if !assert.NoError(t, err) {
				return
			}
			if atomic.AddInt32(&inside, 1) > 1 {
				atomic.StoreInt32(&overlap, 1)
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Zero(t, atomic.LoadInt32(&overlap))

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Empty(t, locker.slots)
}

func TestLocalLockerIndependentKeys(t *testing.T) {
	locker := NewLocalLocker(50 * time.Millisecond)
	unlockA, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Lock(context.Background(), "b")
	require.NoError(t, err)
	unlockB()
}

func TestLocalLockerTimeout(t *testing.T) {
	locker := NewLocalLocker(30 * time.Millisecond)
	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock()

	again, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	again()
}

func TestLocalLockerHonoursContext(t *testing.T) {
	locker := NewLocalLocker(time.Second)
	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

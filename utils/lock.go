package utils

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLockHeld means another caller currently owns the lock.
var ErrLockHeld = errors.New("lock already held")

// RedisSlotLock serializes hold creation per slot with a SETNX lease. The
// lease TTL bounds how long a crashed holder can block the slot.
type RedisSlotLock struct {
	Client *redis.Client
}

// Lock acquires the named lock or fails fast with ErrLockHeld. The returned
// func releases the lock; release is a no-op if the lease already expired
// and someone else re-acquired it.
func (l *RedisSlotLock) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.New().String()
	ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() {
		// Only delete our own lease.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		l.Client.Eval(context.Background(), script, []string{key}, token)
	}
	return release, nil
}

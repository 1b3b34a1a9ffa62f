package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrNotOwner is returned when releasing a lock held by someone else
var ErrNotOwner = errors.New("lock not owned by this client")

// Locker serialises work on a key across service instances
type Locker interface {
	// TryLock attempts to take key for ttl. The returned token must be passed to Unlock.
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// deletes KEYS[1] only while it still holds ARGV[1]
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return -1
`)

// RedisLocker implements Locker with SET NX and an owner checked release
type RedisLocker struct {
	client *redis.Client
	prefix string
	logger *logrus.Logger
}

// NewRedisLocker creates a new RedisLocker. Keys are namespaced with prefix.
func NewRedisLocker(client *redis.Client, prefix string, logger *logrus.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

// TryLock takes the lock when nobody holds it
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	fullKey := l.prefix + key

	acquired, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
	}
	if !acquired {
		l.logger.WithField("lock_key", fullKey).Debug("Lock held by another owner")
		return "", false, nil
	}

	l.logger.WithFields(logrus.Fields{
		"lock_key": fullKey,
		"ttl":      ttl,
	}).Debug("Lock acquired")
	return token, true, nil
}

// Unlock releases the lock if token still owns it. An expired lock is not an error.
func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	fullKey := l.prefix + key

	res, err := unlockScript.Run(ctx, l.client, []string{fullKey}, token).Int64()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", fullKey, err)
	}

	switch res {
	case 1:
		l.logger.WithField("lock_key", fullKey).Debug("Lock released")
		return nil
	default:
		// an expired lock is gone, anything else belongs to another owner
		exists, err := l.client.Exists(ctx, fullKey).Result()
		if err != nil {
			return fmt.Errorf("failed to inspect lock %s: %w", fullKey, err)
		}
		if exists == 0 {
			return nil
		}
		return ErrNotOwner
	}
}

// NoopLocker always grants the lock. Used when Redis is disabled.
type NoopLocker struct{}

// TryLock always succeeds
func (NoopLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	return "", true, nil
}

// Unlock does nothing
func (NoopLocker) Unlock(ctx context.Context, key, token string) error {
	return nil
}

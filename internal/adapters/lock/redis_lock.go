package lock

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/sentinel"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix            = "cargo-lock:"
	defaultRetryInterval = 50 * time.Millisecond
	releaseTimeout       = 2 * time.Second
)

// Delete the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Push the expiry out only if we still own the key.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker is a CargoLocker shared by every process using the same Redis.
// While held, the lock is renewed every ttl/3, so only a holder that dies
// (or cannot reach Redis for a whole ttl) loses it.
type RedisLocker struct {
	client        redis.UniversalClient
	ttl           time.Duration
	retryInterval time.Duration
	renewInterval time.Duration
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:        client,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
		renewInterval: max(ttl/3, time.Millisecond),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, id domain.TrackingID) (func(), error) {
	key := keyPrefix + id.String()
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock cargo %s: %w: %w", id, sentinel.ErrUnavailable, err)
		}
		if ok {
			stop := l.keepAlive(ctx, key, token)
			return l.releaser(ctx, key, token, stop), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock cargo %s: %w: %w", id, sentinel.ErrLockNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}

// keepAlive renews the lock until the returned stop func is called. It gives
// up once the key is no longer ours.
func (l *RedisLocker) keepAlive(ctx context.Context, key, token string) (stop func()) {
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(l.renewInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			owned, err := renewScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("renew cargo lock failed", "key", key, "err", err)
				}
				continue
			}
			if owned == 0 {
				log.Error("cargo lock lost while held", "key", key)
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (l *RedisLocker) releaser(ctx context.Context, key, token string, stop func()) func() {
	log := logger.FromContext(ctx)
	var once sync.Once
	return func() {
		once.Do(func() { l.release(ctx, log, key, token, stop) })
	}
}

func (l *RedisLocker) release(ctx context.Context, log *logger.Logger, key, token string, stop func()) {
	stop()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		log.Warn("release cargo lock failed", "key", key, "err", err)
	}
}

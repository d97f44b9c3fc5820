package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL bounds how long a crashed holder can keep a key locked.
	DefaultTTL = 30 * time.Second
	// DefaultRetry is the polling interval while waiting for a held key.
	DefaultRetry = 50 * time.Millisecond
)

// unlockScript deletes the key only if it still holds our token.
const unlockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Redis is a lock shared by every process that talks to the same Redis.
type Redis struct {
	client   *redis.Client
	prefix   string
	ttl      time.Duration
	retry    time.Duration
	newToken func() string
}

// NewRedis creates a Redis lock. Keys are stored as "{prefix}:{key}".
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = "lock"
	}
	return &Redis{
		client:   client,
		prefix:   prefix,
		ttl:      ttl,
		retry:    DefaultRetry,
		newToken: uuid.NewString,
	}
}

func (r *Redis) lockKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

// Lock polls SET NX until the key is acquired or ctx is done.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	k := r.lockKey(key)
	token := r.newToken()

	for {
		ok, err := r.client.SetNX(ctx, k, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", k, err)
		}
		if ok {
			break
		}

		t := time.NewTimer(r.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	return func() {
		// release even if the caller has already given up
		err := r.client.Eval(context.WithoutCancel(ctx), unlockScript, []string{k}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			slog.Warn("failed to release lock", "key", k, "error", err)
		}
	}, nil
}

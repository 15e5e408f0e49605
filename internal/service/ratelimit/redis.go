package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every replica.
type RedisLimiter struct {
	rdb    redis.Cmdable
	prefix string
	window time.Duration
	limit  int64
	now    func() time.Time
}

// NewRedis creates a limiter allowing limit requests per key per window.
func NewRedis(rdb redis.Cmdable, prefix string, window time.Duration, limit int64) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, window: window, limit: limit, now: time.Now}
}

func (l *RedisLimiter) key(client string) string {
	slot := l.now().UnixNano() / int64(l.window)
	return fmt.Sprintf("%sratelimit:%s:%d", l.prefix, client, slot)
}

// Allow increments the current window's counter for key.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return n <= l.limit, nil
}

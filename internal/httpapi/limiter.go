package httpapi

import (
	"context"
	"time"

	"taskboard/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// IssueLimiter decides whether another token may be issued for key.
type IssueLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window IssueLimiter shared by all API instances.
type RedisLimiter struct {
	rdb    redis.Scripter
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(rdb redis.Scripter, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return utils.AllowInWindow(ctx, l.rdb, l.prefix+key, l.limit, l.window)
}

// Package ratelimit counts requests per key against a per-minute budget.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const window = time.Minute

type Limiter interface {
	// Allow records one hit for key. When it returns an error the boolean
	// is true so callers can fail open.
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter shares a fixed one-minute window across every server instance.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	now    func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, prefix string, perMinute int) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: int64(perMinute), now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, l.now().Unix()/int64(window/time.Second))

	count, err := l.rdb.Incr(ctx, windowKey).Result()
	if err != nil {
		return true, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.rdb.PExpire(ctx, windowKey, window+time.Second).Err(); err != nil {
			return true, fmt.Errorf("failed to expire rate limit counter: %w", err)
		}
	}
	return count <= l.limit, nil
}

// LocalLimiter keeps a token bucket per key in process memory.
type LocalLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLocalLimiter(perMinute int) *LocalLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &LocalLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
	}
}

func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// sweep drops visitors idle for three windows, at most once per window.
func (l *LocalLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < window {
		return
	}
	l.lastSweep = now
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > 3*window {
			delete(l.visitors, key)
		}
	}
}

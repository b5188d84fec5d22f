package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]Post, bool, error)
	Set(ctx context.Context, key string, posts []Post, ttl time.Duration) error
}

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Post, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached feed: %w", err)
	}

	var posts []Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached feed: %w", err)
	}
	return posts, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, posts []Post, ttl time.Duration) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode feed: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache feed: %w", err)
	}
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ScrpTrx-Go/GoInstaTrend/internal/config"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

// RedisCache stores hashtag fetch results as JSON, keyed by tag and date
// window. NewRedisCache returns nil when the server is unreachable, callers
// treat a nil cache as "no cache".
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    pkg.Logger
}

func NewRedisCache(log pkg.Logger, cfg config.CacheConfig) *RedisCache {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, continuing without cache", "addr", cfg.Addr, "err", err)
		_ = client.Close()
		return nil
	}

	log.Info("Redis cache connected", "addr", cfg.Addr, "ttl_hours", cfg.TTLHours)
	return &RedisCache{
		client: client,
		ttl:    time.Duration(cfg.TTLHours) * time.Hour,
		log:    log,
	}
}

func cacheKey(tag string, from, to time.Time) string {
	return fmt.Sprintf("hashtag:%s:%s:%s", tag, from.Format(time.DateOnly), to.Format(time.DateOnly))
}

func (c *RedisCache) Get(ctx context.Context, tag string, from, to time.Time) (*model.HashtagFetchResult, bool) {
	data, err := c.client.Get(ctx, cacheKey(tag, from, to)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Cache read failed", "hashtag", tag, "err", err)
		}
		return nil, false
	}

	var result model.HashtagFetchResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.log.Warn("Cache entry corrupt, ignoring", "hashtag", tag, "err", err)
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, result *model.HashtagFetchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result for #%s: %w", result.Hashtag, err)
	}
	key := cacheKey(result.Hashtag, result.StartDate, result.EndDate)
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

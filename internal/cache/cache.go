// Package cache holds the short-TTL Redis cache for scrape results.
// Listings are keyed by section code because the portal updates slowly
// relative to request volume. Model generations are never cached; every
// generation is intentionally fresh.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"newsdesk/internal/config"
	"newsdesk/internal/naver"
)

const (
	newsKeyPrefix = "newsdesk:news:"
	rankingKey    = "newsdesk:ranking"
)

// News caches article listings. A nil *News is a valid no-op cache, so
// handlers do not branch on whether caching is configured.
type News struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewNews returns nil when no Redis URL is configured or the URL does
// not parse; callers treat nil as cache-disabled.
func NewNews(cfg *config.Config) *News {
	if cfg.Cache.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.Cache.RedisURL)
	if err != nil {
		return nil
	}

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}

	return &News{rdb: redis.NewClient(opt), ttl: ttl}
}

func (c *News) GetList(ctx context.Context, code string) ([]naver.Item, bool) {
	return c.get(ctx, newsKeyPrefix+code)
}

func (c *News) SetList(ctx context.Context, code string, items []naver.Item) {
	c.set(ctx, newsKeyPrefix+code, items)
}

func (c *News) GetRanking(ctx context.Context) ([]naver.Item, bool) {
	return c.get(ctx, rankingKey)
}

func (c *News) SetRanking(ctx context.Context, items []naver.Item) {
	c.set(ctx, rankingKey, items)
}

func (c *News) get(ctx context.Context, key string) ([]naver.Item, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var items []naver.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// set is best-effort; a cache write failure never fails the request.
func (c *News) set(ctx context.Context, key string, items []naver.Item) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

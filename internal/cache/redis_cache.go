package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/alamin00006/business-management/internal/domain"
)

const productKeyPrefix = "products:"

type RedisProductListCache struct {
	client *redis.Client
}

func NewRedisProductListCache(addr string, password string, db int) *RedisProductListCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisProductListCache{client: client}
}

func (c *RedisProductListCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisProductListCache) Close() error {
	return c.client.Close()
}

func (c *RedisProductListCache) Get(ctx context.Context, key string) ([]domain.Product, bool, error) {
	val, err := c.client.Get(ctx, productKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []domain.Product
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (c *RedisProductListCache) Set(ctx context.Context, key string, items []domain.Product, ttl time.Duration) error {
	if items == nil {
		return nil
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKeyPrefix+key, payload, ttl).Err()
}

// Invalidate drops every cached product list. Called after catalog writes.
func (c *RedisProductListCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

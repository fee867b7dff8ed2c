// Package redis implements the embedding cache on top of a Redis server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"verdict/internal/cache"
)

var _ cache.EmbeddingCache = (*Cache)(nil)

// Cache stores embedding vectors as JSON arrays under a key prefix with a
// fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New creates a Redis-backed embedding cache and verifies connectivity.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Get(key string) ([]float64, bool, error) {
	data, err := c.client.Get(context.Background(), prefixed(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var vec []float64
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

func (c *Cache) Put(key string, vec []float64) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return c.client.Set(context.Background(), prefixed(key), data, c.ttl).Err()
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error { return c.client.Close() }

func prefixed(key string) string { return "verdict:embedding:" + key }

// Package rediscache backs token.Cache with a shared Redis instance so that
// independently started processes reuse one issued app access token.
package rediscache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/streamkit/go-twitch-client/token"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

type Cache struct {
	client *redis.Client
}

var _ token.Cache = (*Cache)(nil)

// New connects to Redis and verifies the connection with a ping.
func New(opts Options) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis connection failed")
	}

	return &Cache{client: client}, nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", token.ErrCacheMiss
	}
	if err != nil {
		return "", errors.Wrap(err, "redis get")
	}
	return value, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.Wrap(c.client.Set(ctx, key, value, ttl).Err(), "redis set")
}

func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	remaining, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, errors.Wrap(err, "redis ttl")
	}
	// -2 means the key is absent, -1 means no expiry is set.
	if remaining < 0 {
		return 0, token.ErrCacheMiss
	}
	return remaining, nil
}

// Close releases the pooled Redis connections.
func (c *Cache) Close() error {
	return c.client.Close()
}

// internal/infrastructure/database/redis/connection.go
package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
)

// Client wraps the Redis client
type Client struct {
	Redis *redis.Client
}

// NewConnection creates a new Redis connection
func NewConnection(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis connection established successfully")

	return &Client{
		Redis: rdb,
	}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.Redis.Close()
}

// Health checks the Redis connection health
func (c *Client) Health(ctx context.Context) error {
	return c.Redis.Ping(ctx).Err()
}

// IncrWindow increments a fixed-window counter and returns its value. The
// first increment starts the window's expiry.
func (c *Client) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.Redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	if n == 1 {
		if err := c.Redis.Expire(ctx, key, window).Err(); err != nil {
			return n, fmt.Errorf("failed to expire %s: %w", key, err)
		}
	}
	return n, nil
}

// AddToSet adds member to a set and reports whether it was new
func (c *Client) AddToSet(ctx context.Context, key, member string) (bool, error) {
	added, err := c.Redis.SAdd(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add to %s: %w", key, err)
	}
	return added > 0, nil
}

// SetSize returns the number of members in a set
func (c *Client) SetSize(ctx context.Context, key string) (int64, error) {
	return c.Redis.SCard(ctx, key).Result()
}

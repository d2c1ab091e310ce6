// internal/domain/contact/redis_subscribers.go
package contact

import (
	"context"

	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
)

const subscribersKey = "newsletter:subscribers"

// RedisSubscribers keeps newsletter addresses in a Redis set
type RedisSubscribers struct {
	client *redis.Client
}

// NewRedisSubscribers creates a subscriber list backed by client
func NewRedisSubscribers(client *redis.Client) *RedisSubscribers {
	return &RedisSubscribers{client: client}
}

// Add implements Subscribers
func (r *RedisSubscribers) Add(ctx context.Context, email string) (bool, error) {
	return r.client.AddToSet(ctx, subscribersKey, email)
}

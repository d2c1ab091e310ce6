// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"golang.org/x/time/rate"
)

// Limiter decides whether a client may make another request
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
}

// RedisLimiter is a fixed one-minute window shared across instances
type RedisLimiter struct {
	client *redis.Client
	limit  int
	now    func() time.Time
}

// NewRedisLimiter creates a limiter allowing limit requests per minute
func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, now: time.Now}
}

// Allow implements Limiter
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	window := l.now().Unix() / 60
	n, err := l.client.IncrWindow(ctx, fmt.Sprintf("rate_limit:%s:%d", key, window), time.Minute)
	if err != nil {
		return true, 0, err
	}

	remaining := l.limit - int(n)
	if remaining < 0 {
		return false, 0, nil
	}
	return true, remaining, nil
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps a token bucket per client in process
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// NewMemoryLimiter refills perMinute tokens a minute up to burst
func NewMemoryLimiter(perMinute, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow implements Limiter
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		l.evict(now)
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	if !v.limiter.AllowN(now, 1) {
		return false, 0, nil
	}
	return true, int(v.limiter.TokensAt(now)), nil
}

// evict drops visitors idle for longer than l.idle. Callers hold l.mu.
func (l *MemoryLimiter) evict(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.visitors, key)
		}
	}
}

// NewLimiter picks the Redis limiter when a client is available
func NewLimiter(cfg *config.Config, client *redis.Client) Limiter {
	if client != nil {
		return NewRedisLimiter(client, cfg.Security.RateLimitPerMinute)
	}
	return NewMemoryLimiter(cfg.Security.RateLimitPerMinute, cfg.Security.RateLimitBurst)
}

// RateLimit limits requests per client IP
func RateLimit(cfg *config.Config, limiter Limiter, logger *logrus.Logger) gin.HandlerFunc {
	limit := strconv.Itoa(cfg.Security.RateLimitPerMinute)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		allowed, remaining, err := limiter.Allow(ctx, c.ClientIP())
		if err != nil {
			// A limiter outage lets traffic through.
			logger.WithError(err).Warn("Rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": 60,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/choiben-assist/ai-backend/internal/pkg/redis"
	"github.com/choiben-assist/ai-backend/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	rateLimitWindow    = time.Minute
	rateLimitKeyPrefix = "assist:rate_limit:"
	sweepEvery         = 1024
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter counts requests per client key over a sliding one-minute window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Limit() int
}

func retryAfter(oldest, now time.Time) time.Duration {
	d := oldest.Add(rateLimitWindow).Sub(now)
	if d < time.Second {
		d = time.Second
	}
	return d
}

// MemoryLimiter keeps request timestamps per key in process memory.
type MemoryLimiter struct {
	limit int
	now   func() time.Time

	mu    sync.Mutex
	hits  map[string][]time.Time
	calls int
}

func NewMemoryLimiter(limit int) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, now: time.Now, hits: make(map[string][]time.Time)}
}

func (l *MemoryLimiter) Limit() int { return l.limit }

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()
	cutoff := now.Add(-rateLimitWindow)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(cutoff)
	}

	kept := prune(l.hits[key], cutoff)
	if len(kept) >= l.limit {
		l.hits[key] = kept
		return Decision{RetryAfter: retryAfter(kept[0], now)}, nil
	}
	l.hits[key] = append(kept, now)
	return Decision{Allowed: true}, nil
}

// sweep drops keys whose entries have all expired. Caller holds mu.
func (l *MemoryLimiter) sweep(cutoff time.Time) {
	for k, ts := range l.hits {
		if kept := prune(ts, cutoff); len(kept) == 0 {
			delete(l.hits, k)
		} else {
			l.hits[k] = kept
		}
	}
}

// prune keeps timestamps strictly after cutoff; ts is in insertion order.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}

// RedisLimiter shares the window across processes through a sorted set per key.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, now: time.Now}
}

func (l *RedisLimiter) Limit() int { return l.limit }

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	k := rateLimitKeyPrefix + key

	st, err := l.client.WindowPrune(ctx, k, now, rateLimitWindow)
	if err != nil {
		return Decision{}, err
	}
	if st.Count >= int64(l.limit) {
		return Decision{RetryAfter: retryAfter(st.Oldest, now)}, nil
	}
	if err := l.client.WindowAdd(ctx, k, uuid.NewString(), now, rateLimitWindow); err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: true}, nil
}

// RateLimit rejects clients over the limiter's per-minute budget with 429.
// Limiter failures let the request through.
func RateLimit(l Limiter, log *zap.Logger) gin.HandlerFunc {
	msg := fmt.Sprintf("Rate limit exceeded. Maximum %d requests per minute.", l.Limit())
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}

		d, err := l.Allow(c.Request.Context(), ip)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("ip", ip), zap.Error(err))
			c.Next()
			return
		}
		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			log.Info("rate limited", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			response.TooManyRequests(c, "rate_limit_exceeded", msg, &secs)
			return
		}
		c.Next()
	}
}

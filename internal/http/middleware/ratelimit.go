// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements request rate limiting behind a small Limiter
// interface with two backends:
//   - LocalLimiter: per-key token buckets (golang.org/x/time/rate) held in
//     process memory, with opportunistic eviction of idle buckets.
//   - RedisLimiter: fixed one-second windows counted with INCR/EXPIRE, shared
//     by every replica pointed at the same Redis.
//
// Idempotent replays flagged by IdempotencyValidator skip limiting.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request for key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// KeyFunc selects the identity used to key a rate-limit bucket.
type KeyFunc func(*gin.Context) string

// KeyByUserOrIP prefers the authenticated user and falls back to the client
// IP. Keys are prefixed ("user:abc", "ip:203.0.113.7") so the namespaces
// cannot collide.
func KeyByUserOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get(CtxUserID); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		return "ip:" + c.ClientIP()
	}
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay that should not consume quota.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// RateLimit enforces l per keyFn identity. Denied requests get 429 with
// Retry-After: 1. Limiter errors fail open and are logged.
func RateLimit(l Limiter, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		allowed, err := l.Allow(c.Request.Context(), keyFn(c))
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("rate limiter unavailable; allowing request")
			c.Next()
			return
		}
		if allowed {
			c.Next()
			return
		}

		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}

// visitor holds a single token bucket and the last time it was used.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is a process-local, per-key token-bucket limiter. It is safe
// for concurrent use.
type LocalLimiter struct {
	rps      rate.Limit
	burst    int
	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewLocalLimiter constructs a LocalLimiter refilling rps tokens per second
// up to burst (values <= 0 are coerced to 1).
func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &LocalLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
	}
}

// Allow consumes one token from key's bucket.
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.getVisitor(key).Allow(), nil
}

// getVisitor returns the bucket for key, creating it if absent. Every 5000
// lookups idle buckets are evicted first, so a stale bucket is dropped even
// when it is the one being fetched.
func (l *LocalLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.cleanupN++
	if l.cleanupN >= 5000 {
		for k, vv := range l.visitors {
			if now.Sub(vv.lastSeen) >= l.ttl {
				delete(l.visitors, k)
			}
		}
		l.cleanupN = 0
	}

	if v, ok := l.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// RedisCounter is the subset of *redis.Client used by RedisLimiter.
type RedisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter allows up to limit requests per key per wall-clock second.
type RedisLimiter struct {
	rdb    RedisCounter
	limit  int64
	prefix string
	now    func() time.Time
}

// NewRedisLimiter builds a fixed-window limiter on rdb. limit <= 0 is
// coerced to 1.
func NewRedisLimiter(rdb RedisCounter, limit int) *RedisLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &RedisLimiter{rdb: rdb, limit: int64(limit), prefix: "trainflow:rl:", now: time.Now}
}

// Allow increments key's counter for the current second. The first hit in a
// window sets a short expiry so counters never outlive their window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key + ":" + strconv.FormatInt(l.now().Unix(), 10)
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, 2*time.Second).Err(); err != nil {
			return false, err
		}
	}
	return n <= l.limit, nil
}

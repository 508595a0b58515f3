package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"avix/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const rateWindow = time.Minute

// RateLimitResult reports the outcome of a rate-limit check, with enough
// information to emit X-RateLimit-* headers.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts requests per key in fixed one-minute windows.
type RateLimiter interface {
	Check(ctx context.Context, key string, limit int) RateLimitResult
}

// MemoryRateLimiter is the single-instance fallback when Redis is
// unavailable. Counters are swept after their window ends.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	l := &MemoryRateLimiter{windows: make(map[string]*memoryWindow)}
	go l.sweep()
	return l
}

func (l *MemoryRateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for key, w := range l.windows {
			if now.After(w.resetAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

func (l *MemoryRateLimiter) Check(_ context.Context, key string, limit int) RateLimitResult {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(rateWindow)}
		l.windows[key] = w
	}
	w.count++

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   w.count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}
}

// RedisRateLimiter shares fixed-window counters across instances. It fails
// open: a Redis outage must not take the API down with it.
type RedisRateLimiter struct {
	Client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{Client: client}
}

func (l *RedisRateLimiter) Check(ctx context.Context, key string, limit int) RateLimitResult {
	redisKey := "ratelimit:" + key

	count, err := l.Client.Incr(ctx, redisKey).Result()
	if err != nil {
		utils.GetLogger().Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return RateLimitResult{Allowed: true, Limit: limit, Remaining: limit, ResetAt: time.Now().Add(rateWindow)}
	}
	if count == 1 {
		l.Client.Expire(ctx, redisKey, rateWindow)
	}

	resetAt := time.Now().Add(rateWindow)
	if ttl, err := l.Client.TTL(ctx, redisKey).Result(); err == nil && ttl > 0 {
		resetAt = time.Now().Add(ttl)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   int(count) <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// RateLimitMiddleware enforces a per-client-IP limit for the given scope.
// Every response carries the X-RateLimit-* headers; a rejected request
// answers 429 with a Retry-After.
func RateLimitMiddleware(limiter RateLimiter, scope string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", scope, GetClientIP(c))
		res := limiter.Check(c.Request.Context(), key, limit)

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retryAfter := int(time.Until(res.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			utils.GetLogger().Warn("rate limit exceeded",
				zap.String("scope", scope), zap.String("ip", GetClientIP(c)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "RATE_LIMIT_EXCEEDED",
				"message": "Troppe richieste. Riprova più tardi.",
			})
			return
		}

		c.Next()
	}
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter keeps one token bucket per key (client IP or user id).
// Buckets idle for longer than limiterIdleTTL are dropped on the next sweep.
type KeyedRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*keyedLimiter
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func NewKeyedRateLimiter(limit rate.Limit, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*keyedLimiter),
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}
}

func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) > limiterIdleTTL {
		for id, entry := range k.limiters {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(k.limiters, id)
			}
		}
		k.lastSweep = now
	}

	entry, ok := k.limiters[key]
	if !ok {
		entry = &keyedLimiter{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Len reports how many buckets are live.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

// retryAfterSeconds is one token interval rounded up, at least 1.
func (k *KeyedRateLimiter) retryAfterSeconds() int {
	if k.limit <= 0 || k.limit == rate.Inf {
		return 1
	}
	secs := math.Ceil(1/float64(k.limit) - 1e-9)
	if secs < 1 || secs > math.MaxInt32 {
		return 1
	}
	return int(secs)
}

func limitBy(limiter *KeyedRateLimiter, key func(*gin.Context) string, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if k == "" {
			c.Next()
			return
		}
		if !limiter.GetLimiter(k).Allow() {
			c.Header("Retry-After", strconv.Itoa(limiter.retryAfterSeconds()))
			response.Abort(c, http.StatusTooManyRequests, apperror.CodeTooManyRequests, message)
			return
		}
		c.Next()
	}
}

func RateLimitByIP(limit rate.Limit, burst int) gin.HandlerFunc {
	return limitBy(NewKeyedRateLimiter(limit, burst), func(c *gin.Context) string {
		return c.ClientIP()
	}, "Too many requests from this IP")
}

// RateLimitByUser limits authenticated callers. Anonymous requests pass
// through; the auth chain rejects them later.
func RateLimitByUser(limit rate.Limit, burst int) gin.HandlerFunc {
	return limitBy(NewKeyedRateLimiter(limit, burst), func(c *gin.Context) string {
		return c.GetString(ContextUserID)
	}, "Too many requests from this user")
}

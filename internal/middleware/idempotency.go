package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	ContextIdempotencyCacheKey = "idempotency_cache_key"
	ContextIdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key and
// rejects a duplicate that arrives while the first one is still running.
// The handler stores the response with RememberResponse.
func Idempotency(rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString(ContextUserIDValidated)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"
		ctx := c.Request.Context()

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResponse
			if json.Unmarshal([]byte(val), &cached) == nil && cached.Status != 0 {
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
		}

		// A short TTL frees the key if the process dies mid-request.
		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// Without redis the request still runs, only unguarded.
			c.Next()
			return
		}

		if !isNew {
			response.Abort(c, http.StatusConflict, apperror.CodeProcessing, "The request is still being processed")
			return
		}

		c.Set(ContextIdempotencyCacheKey, cacheKey)
		c.Set(ContextIdempotencyLockKey, lockKey)

		c.Next()
	}
}

// RememberResponse caches a successful response under the request's
// idempotency key. It is a no-op when the request carried no key.
func RememberResponse(c *gin.Context, rdb redis.Cmdable, status int, data any) {
	if rdb == nil {
		return
	}
	cacheKey := c.GetString(ContextIdempotencyCacheKey)
	if cacheKey == "" {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	body, err := json.Marshal(cachedResponse{Status: status, Data: payload})
	if err != nil {
		return
	}
	_ = rdb.Set(c.Request.Context(), cacheKey, body, idempotencyCacheTTL).Err()
}

// ReleaseIdempotencyLock drops the in-flight marker set by Idempotency.
func ReleaseIdempotencyLock(c *gin.Context, rdb redis.Cmdable) {
	if rdb == nil {
		return
	}
	if lockKey := c.GetString(ContextIdempotencyLockKey); lockKey != "" {
		_ = rdb.Del(c.Request.Context(), lockKey).Err()
	}
}

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	idempotencyLockTTL   = 5 * time.Minute
)

var errRequestInFlight = apperror.New(
	"PROCESSING",
	"an identical request is still being processed",
	http.StatusConflict,
)

// Idempotency replays the cached response of a finished POST with the same
// Idempotency-Key and rejects a duplicate that arrives while the first is
// still running. Handlers release the lock and fill the cache through the
// idempotency_lock_key and idempotency_cache_key context values.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString(ContextActorID), key)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached any
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replay", "true")
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			response.FromError(c, apperror.ErrServiceUnavailable)
			c.Abort()
			return
		}
		if !acquired {
			response.FromError(c, errRequestInFlight)
			c.Abort()
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)
		c.Next()
	}
}

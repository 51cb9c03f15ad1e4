package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

// RateLimit enforces a fixed-window per-client request cap backed by
// Redis. When the Redis call fails the request is let through; the
// limiter protects capacity, it is not an auth boundary.
func RateLimit(rdb *redis.Client, log *logger.Logger, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 || window < time.Second {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/int64(window.Seconds()))
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			if log != nil {
				log.Warn("Rate limiter unavailable", "error", err)
			}
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"message": "Too many requests",
					"code":    "rate_limited",
				},
				"timestamp": time.Now().UTC(),
			})
			return
		}
		c.Next()
	}
}

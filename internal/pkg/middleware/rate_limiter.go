package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/constants"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/utils"
)

// RateLimiterConfig contains configuration for the rate limiter
type RateLimiterConfig struct {
	RedisClient *redis.Client
	Key         string        // Resource name used in the Redis key
	Limit       int           // Maximum number of requests per window
	Period      time.Duration // Window length
}

// RateLimiterMiddleware applies a fixed-window limit per route and client IP.
// Redis errors fail open so a cache outage never blocks payments.
func RateLimiterMiddleware(config RateLimiterConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf(constants.KeyRateLimit, config.Key, c.RealIP())

			count, err := config.RedisClient.Incr(ctx, key).Result()
			if err == nil && count == 1 {
				err = config.RedisClient.Expire(ctx, key, config.Period).Err()
			}
			if err != nil {
				logger.Warn("Rate limiter unavailable, allowing request",
					logger.String("key", key),
					logger.Err(err))
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Limit))

			if count > int64(config.Limit) {
				ttl := config.RedisClient.TTL(ctx, key).Val()
				if ttl < 0 {
					ttl = config.Period
				}
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(ttl.Seconds()), 10))
				return utils.ErrorResponseHandler(c, http.StatusTooManyRequests, "Rate limit exceeded")
			}

			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(config.Limit-int(count)))
			return next(c)
		}
	}
}

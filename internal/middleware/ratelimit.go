package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gift_registry_echo/internal/ratelimit"
)

// RateLimit rejects requests exceeding the caller's window budget with
// 429. The limiter is advisory abuse protection; a store failure lets the
// request through rather than taking the API down.
func RateLimit(limiter *ratelimit.Limiter, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := limiter.Check(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn("rate limit check failed", zap.Error(err))
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"success": false,
					"error":   "Too many requests, please try again later",
				})
			}

			return next(c)
		}
	}
}

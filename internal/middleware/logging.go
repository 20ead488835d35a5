package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/logger"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			kv := []any{
				"method", req.Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
				"user", userKey(c),
			}
			if err != nil {
				log.Warn("request failed", append(kv, "error", err)...)
				return nil
			}
			log.Info("request", kv...)
			return nil
		}
	}
}

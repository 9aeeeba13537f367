package middleware

import (
	"time"

	"auction-marketplace/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per API request through the service logger.
func RequestLogger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			log.Info("Request handled",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", req.Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"remote_addr", c.RealIP(),
				"latency", time.Since(start).String())
			return nil
		}
	}
}

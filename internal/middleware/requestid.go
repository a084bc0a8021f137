package middleware

import (
	"shop-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags each request with an id, reusing the caller's
// X-Request-ID when present, and attaches a logger carrying it
func RequestIDMiddleware(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Reuse the caller's request ID or generate a new one
			requestID := c.Request().Header.Get(logger.RequestIDKey)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(logger.RequestIDKey, requestID)
			}
			// Echo the ID back and keep it in the context
			c.Response().Header().Set(logger.RequestIDKey, requestID)
			c.Set("request_id", requestID)

			// Attach a logger carrying the request ID
			logger.WithLogger(c, base.With(zap.String("request_id", requestID)))

			return next(c)
		}
	}
}

package middleware

import (
	"strconv"
	"time"

	"shop-service/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records the count and latency of every request by route
func MetricsMiddleware(m *prometheus.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Start timer for request duration
			start := time.Now()

			// Process request
			err := next(c)

			// Use the error's status when the handler returned one
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			// Label by route template, not the raw URL
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			// Record metrics
			m.ObserveHTTPRequest(c.Request().Method, path, strconv.Itoa(status), time.Since(start))

			return err
		}
	}
}

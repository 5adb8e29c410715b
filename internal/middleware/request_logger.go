package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestID reuses an incoming X-Request-ID or generates one, and echoes it
// on the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// RequestLogger writes one structured line per request once the handler returns.
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := logrus.Fields{
				"request_id":  res.Header().Get(echo.HeaderXRequestID),
				"method":      req.Method,
				"path":        req.URL.Path,
				"status":      res.Status,
				"remote":      c.RealIP(),
				"duration_ms": time.Since(start).Milliseconds(),
			}

			entry := logger.WithFields(fields)
			switch {
			case res.Status >= 500:
				entry.Error("Request completed")
			case res.Status >= 400:
				entry.Warn("Request completed")
			default:
				entry.Info("Request completed")
			}
			return nil
		}
	}
}

package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIVersionKey is the echo context key holding the resolved API version.
const APIVersionKey = "api_version"

// VersionRoute mounts an /<version> group that stamps every response with
// the X-API-Version header.
func VersionRoute(e *echo.Echo, version string) *echo.Group {
	group := e.Group("/" + version)
	group.Use(VersionHeader(version))
	return group
}

// VersionHeader adds version information to response headers
func VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			c.Set(APIVersionKey, version)
			return next(c)
		}
	}
}

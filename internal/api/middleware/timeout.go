package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig returns timeout middleware configuration
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	})
}

// SelectiveTimeoutConfig applies the default timeout to most endpoints and a
// longer one to matching endpoints, which wait on external AI services.
func SelectiveTimeoutConfig(defaultTimeout, matchTimeout time.Duration) echo.MiddlewareFunc {
	defaultMiddleware := TimeoutConfig(defaultTimeout)
	matchMiddleware := TimeoutConfig(matchTimeout)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isMatchPath(c.Request().URL.Path) {
				return matchMiddleware(next)(c)
			}
			return defaultMiddleware(next)(c)
		}
	}
}

func isMatchPath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/match")
}

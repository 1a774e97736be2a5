package http

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	WebHandler        *WebHandler
	APIHandler        *APIHandler
	SessionMiddleware echo.MiddlewareFunc
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Keystroke updates fire on every input event
			return strings.HasPrefix(c.Request().URL.Path, "/form/fields/")
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	RegisterWebRoutes(e, config.WebHandler, config.SessionMiddleware)
	RegisterAPIRoutes(e, config.APIHandler, config.SessionMiddleware)
}

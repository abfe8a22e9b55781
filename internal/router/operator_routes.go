package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-occupancy/internal/handler"
	"github.com/iliyamo/room-occupancy/internal/middleware"
)

// RegisterOperator registers the on-demand refresh trigger.  When jwtSecret
// is set the route requires a valid JWT with the OPERATOR role; when it is
// empty the route is open, which suits local development.
func RegisterOperator(e *echo.Echo, r *handler.RefreshHandler, jwtSecret string) {
	var mws []echo.MiddlewareFunc
	if jwtSecret != "" {
		mws = append(mws,
			middleware.JWTAuth(jwtSecret),
			middleware.RequireRole(middleware.RoleOperator),
		)
	}
	g := e.Group("/v1", mws...)
	g.POST("/refresh", r.Refresh)
}

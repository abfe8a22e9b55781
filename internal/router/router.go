package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-occupancy/internal/config"
	"github.com/iliyamo/room-occupancy/internal/handler"
	"github.com/iliyamo/room-occupancy/internal/middleware"
)

// RegisterRoutes registers the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterRooms registers the read-only room queries under /v1.  They are
// rate limited and their responses cached in Redis per snapshot
// generation; with rdb nil both layers pass through.
func RegisterRooms(e *echo.Echo, h *handler.RoomsHandler, rdb *redis.Client, cc config.CacheConfig, rc config.RateLimitConfig) {
	g := e.Group("/v1")
	g.Use(middleware.TokenBucket(rc, rdb))
	g.Use(middleware.ResponseCache(cc, rdb, h.Rooms.Generation))

	g.GET("/snapshot", h.Snapshot)
	g.GET("/rooms", h.ListRooms)
	g.GET("/rooms/search", h.Search)
	g.GET("/rooms/summary", h.Summary)
	g.GET("/floors/:floor/rooms", h.FloorRooms)
}

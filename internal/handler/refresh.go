package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/room-occupancy/internal/middleware"
	"github.com/iliyamo/room-occupancy/internal/service"
)

// Refresher runs one refresh cycle; *service.Refresher satisfies it.
type Refresher interface {
	Run(ctx context.Context) (service.Result, error)
}

// RefreshHandler is the on-demand refresh trigger.
type RefreshHandler struct {
	Refresher Refresher
	Logger    *zap.Logger
}

// Refresh runs a refresh and waits for it.  A failure answers 502 with a
// generic body; the cause is only logged.
func (h *RefreshHandler) Refresh(c echo.Context) error {
	by := middleware.Subject(c)
	res, err := h.Refresher.Run(c.Request().Context())
	if err != nil {
		h.Logger.Warn("manual refresh failed", zap.String("by", by), zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "refresh failed"})
	}
	h.Logger.Info("manual refresh done", zap.String("by", by), zap.Int("rooms", res.RoomCount))
	return c.JSON(http.StatusOK, echo.Map{
		"ok":           true,
		"rooms":        res.RoomCount,
		"refreshed_at": res.RefreshedAt.UTC().Format(time.RFC3339),
	})
}

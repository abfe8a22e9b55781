package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe.  It does not depend on the room source:
// the service stays healthy while refreshes fail and serves the last
// committed snapshot.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

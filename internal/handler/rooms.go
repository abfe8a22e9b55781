// Package handler exposes the HTTP endpoints of the room occupancy API.
// This file serves the read-only room queries.  Every handler reads the
// snapshot current at call time and never waits on a refresh.

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-occupancy/internal/model"
	"github.com/iliyamo/room-occupancy/internal/query"
)

// RoomsHandler answers room queries from the query facade.
type RoomsHandler struct {
	Rooms *query.Facade
}

// Snapshot returns every record with the time of the last committed
// refresh.  Before the first refresh the records list is empty and
// last_update is null.
func (h *RoomsHandler) Snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Rooms.Snapshot())
}

// ListRooms lists rooms, optionally filtered by ?status= (key such as
// "free" or numeric code) and ?floor=.  With ?group=floor the result is
// split per floor.
func (h *RoomsHandler) ListRooms(c echo.Context) error {
	snap := h.Rooms.Snapshot()
	records := snap.Records

	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		records = query.ByStatus(records, st)
	}
	if raw := strings.TrimSpace(c.QueryParam("floor")); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid floor"})
		}
		records = query.ByFloor(records, floor)
	}

	switch c.QueryParam("group") {
	case "":
		return c.JSON(http.StatusOK, echo.Map{"items": records, "last_update": snap.LastUpdate})
	case "floor":
		groups := query.GroupByFloor(records)
		if groups == nil {
			groups = []query.FloorGroup{}
		}
		return c.JSON(http.StatusOK, echo.Map{"floors": groups, "last_update": snap.LastUpdate})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid group"})
	}
}

// FloorRooms lists the rooms of the floor given in the path.
func (h *RoomsHandler) FloorRooms(c echo.Context) error {
	floor, err := strconv.Atoi(c.Param("floor"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid floor"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"floor": floor,
		"label": model.FloorLabel(floor),
		"items": h.Rooms.ByFloor(floor),
	})
}

// Search returns the first room whose name or display name contains ?q=,
// ignoring case.
func (h *RoomsHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}
	room, err := h.Rooms.FindRoom(q)
	if errors.Is(err, query.ErrRoomNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, room)
}

// Summary returns per-status counts and the occupancy rate.
func (h *RoomsHandler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Rooms.Summary())
}

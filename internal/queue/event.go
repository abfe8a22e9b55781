// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// RoomsRefreshedEvent is published after a refresh commits a new snapshot.
// It carries the status counts so downstream consumers can log or alert
// without querying the service.
type RoomsRefreshedEvent struct {
	EventID       string `json:"event_id"`
	SourceURL     string `json:"source_url"`
	RoomCount     int    `json:"room_count"`
	Free          int    `json:"free"`
	Occupied      int    `json:"occupied"`
	Reserved      int    `json:"reserved"`
	Unknown       int    `json:"unknown"`
	OccupancyRate int    `json:"occupancy_rate"`
	RefreshedAt   string `json:"refreshed_at"` // RFC 3339, UTC
}

// NewRoomsRefreshedEvent stamps a fresh event id and formats the refresh
// time.
func NewRoomsRefreshedEvent(sourceURL string, refreshedAt time.Time) RoomsRefreshedEvent {
	return RoomsRefreshedEvent{
		EventID:     uuid.NewString(),
		SourceURL:   sourceURL,
		RefreshedAt: refreshedAt.UTC().Format(time.RFC3339),
	}
}

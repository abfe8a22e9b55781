package service

import (
	"context"

	"github.com/iliyamo/room-occupancy/internal/model"
	"github.com/iliyamo/room-occupancy/internal/query"
	"github.com/iliyamo/room-occupancy/internal/queue"
)

// EventPublisher is satisfied by *queue.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.RoomsRefreshedEvent) error
}

// PublishRefreshed announces each committed snapshot with its status counts.
func PublishRefreshed(p EventPublisher, sourceURL string) CommitHook {
	return func(ctx context.Context, snap model.Snapshot) error {
		if snap.LastUpdate == nil {
			return nil
		}
		sum := query.Summarize(snap)
		ev := queue.NewRoomsRefreshedEvent(sourceURL, *snap.LastUpdate)
		ev.RoomCount = sum.Total
		ev.Free = sum.Free
		ev.Occupied = sum.Occupied
		ev.Reserved = sum.Reserved
		ev.Unknown = sum.Unknown
		ev.OccupancyRate = sum.OccupancyRate
		return p.Publish(ctx, ev)
	}
}

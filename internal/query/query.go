// Package query answers read-only questions about a room snapshot.  The
// package-level functions work on any record slice; Facade binds them to
// the live store.
package query

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/iliyamo/room-occupancy/internal/model"
	"github.com/iliyamo/room-occupancy/internal/store"
)

// ErrRoomNotFound is returned by Facade.FindRoom when nothing matches.
// Handlers should translate it into an HTTP 404 response.
var ErrRoomNotFound = errors.New("room not found")

// ByStatus keeps the records with the given status, in snapshot order.
func ByStatus(records []model.RoomRecord, status model.Status) []model.RoomRecord {
	return filter(records, func(r model.RoomRecord) bool { return r.Status == status })
}

// ByFloor keeps the records on the given floor, in snapshot order.
func ByFloor(records []model.RoomRecord, floor int) []model.RoomRecord {
	return filter(records, func(r model.RoomRecord) bool { return r.Floor == floor })
}

// FindByName returns the first record whose Name or DisplayName contains
// q, ignoring case.  The scan is linear and the first hit wins.
func FindByName(records []model.RoomRecord, q string) (model.RoomRecord, bool) {
	needle := strings.ToLower(q)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.DisplayName), needle) ||
			strings.Contains(strings.ToLower(r.Name), needle) {
			return r, true
		}
	}
	return model.RoomRecord{}, false
}

// FloorGroup is the set of rooms of one floor.
type FloorGroup struct {
	Floor int                `json:"floor"`
	Label string             `json:"label"`
	Rooms []model.RoomRecord `json:"rooms"`
}

// GroupByFloor splits records by floor.  Groups appear in order of first
// occurrence and rooms keep their snapshot order.
func GroupByFloor(records []model.RoomRecord) []FloorGroup {
	idx := map[int]int{}
	var out []FloorGroup
	for _, r := range records {
		i, ok := idx[r.Floor]
		if !ok {
			i = len(out)
			idx[r.Floor] = i
			out = append(out, FloorGroup{Floor: r.Floor, Label: model.FloorLabel(r.Floor)})
		}
		out[i].Rooms = append(out[i].Rooms, r)
	}
	return out
}

// Summary is the occupancy overview of a snapshot.
type Summary struct {
	Free          int        `json:"free"`
	Occupied      int        `json:"occupied"`
	Reserved      int        `json:"reserved"`
	Unknown       int        `json:"unknown"`
	Total         int        `json:"total"`
	OccupancyRate int        `json:"occupancy_rate"` // percent, rounded
	LastUpdate    *time.Time `json:"last_update"`
}

// Summarize counts records per status.  OccupancyRate is the rounded share
// of occupied rooms, 0 for an empty snapshot.
func Summarize(snap model.Snapshot) Summary {
	s := Summary{Total: len(snap.Records), LastUpdate: snap.LastUpdate}
	for _, r := range snap.Records {
		switch r.Status {
		case model.StatusFree:
			s.Free++
		case model.StatusOccupied:
			s.Occupied++
		case model.StatusReserved:
			s.Reserved++
		default:
			s.Unknown++
		}
	}
	if s.Total > 0 {
		s.OccupancyRate = int(math.Round(float64(s.Occupied) / float64(s.Total) * 100))
	}
	return s
}

func filter(records []model.RoomRecord, keep func(model.RoomRecord) bool) []model.RoomRecord {
	out := make([]model.RoomRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Facade runs queries against whatever snapshot the store holds at call
// time.  It never blocks on a refresh in progress.
type Facade struct {
	store *store.SnapshotStore
}

// NewFacade binds a Facade to s.
func NewFacade(s *store.SnapshotStore) *Facade {
	return &Facade{store: s}
}

// Snapshot returns the current snapshot.
func (f *Facade) Snapshot() model.Snapshot { return f.store.Current() }

func (f *Facade) ByStatus(status model.Status) []model.RoomRecord {
	return ByStatus(f.store.Records(), status)
}

func (f *Facade) ByFloor(floor int) []model.RoomRecord {
	return ByFloor(f.store.Records(), floor)
}

// FindRoom is FindByName over the current snapshot.
func (f *Facade) FindRoom(q string) (model.RoomRecord, error) {
	if r, ok := FindByName(f.store.Records(), q); ok {
		return r, nil
	}
	return model.RoomRecord{}, ErrRoomNotFound
}

func (f *Facade) Summary() Summary { return Summarize(f.store.Current()) }

// Generation identifies the snapshot queries currently read.
func (f *Facade) Generation() uint64 { return f.store.Generation() }

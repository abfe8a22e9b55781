// Package store holds the current room snapshot in memory.
package store

import (
	"sync/atomic"
	"time"

	"github.com/iliyamo/room-occupancy/internal/model"
)

// SnapshotStore keeps the latest committed snapshot.  Replace swaps the
// whole snapshot in one atomic step, so readers see either the old set or
// the new one and never wait on a writer.
type SnapshotStore struct {
	current atomic.Pointer[version]
	seq     atomic.Uint64
}

// version pairs a committed snapshot with its generation number.
type version struct {
	snap model.Snapshot
	gen  uint64
}

// New returns an empty store.
func New() *SnapshotStore {
	return &SnapshotStore{}
}

// Replace commits records as the new snapshot taken at ts.  The slice is
// copied; the caller may reuse it afterwards.
func (s *SnapshotStore) Replace(records []model.RoomRecord, ts time.Time) {
	recs := make([]model.RoomRecord, len(records))
	copy(recs, records)
	stamp := ts
	s.current.Store(&version{
		snap: model.Snapshot{Records: recs, LastUpdate: &stamp},
		gen:  s.seq.Add(1),
	})
}

// Generation numbers committed snapshots from 1 upwards; it is 0 before
// the first Replace.  Anything derived from a snapshot, such as a cached
// response, is valid only while the generation is unchanged.
func (s *SnapshotStore) Generation() uint64 {
	if v := s.current.Load(); v != nil {
		return v.gen
	}
	return 0
}

// Current returns the latest snapshot, or an empty one with a nil
// LastUpdate before the first Replace.  The returned slice is a copy.
func (s *SnapshotStore) Current() model.Snapshot {
	v := s.current.Load()
	if v == nil {
		return model.Snapshot{Records: []model.RoomRecord{}}
	}
	recs := make([]model.RoomRecord, len(v.snap.Records))
	copy(recs, v.snap.Records)
	stamp := *v.snap.LastUpdate
	return model.Snapshot{Records: recs, LastUpdate: &stamp}
}

// Records is shorthand for Current().Records.
func (s *SnapshotStore) Records() []model.RoomRecord {
	return s.Current().Records
}

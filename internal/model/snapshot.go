package model

import "time"

// Snapshot is the complete set of rooms produced by one successful refresh.
// LastUpdate is nil until the first refresh has been committed.
type Snapshot struct {
	Records    []RoomRecord `json:"records"`
	LastUpdate *time.Time   `json:"last_update"`
}

// Empty reports whether no refresh has been committed yet.
func (s Snapshot) Empty() bool { return s.LastUpdate == nil }

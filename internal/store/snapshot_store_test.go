package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-occupancy/internal/model"
)

func batch(gen, n int, ts time.Time) []model.RoomRecord {
	out := make([]model.RoomRecord, n)
	for i := range out {
		out[i] = model.RoomRecord{
			ID:          fmt.Sprintf("g%d-r%d", gen, i),
			DisplayName: fmt.Sprintf("G%d", gen),
			Status:      model.StatusFree,
			LastUpdated: ts,
		}
	}
	return out
}

func TestSnapshotStore_EmptyBeforeFirstReplace(t *testing.T) {
	s := New()
	snap := s.Current()
	assert.True(t, snap.Empty())
	assert.Nil(t, snap.LastUpdate)
	assert.NotNil(t, snap.Records)
	assert.Empty(t, snap.Records)
}

func TestSnapshotStore_ReplaceSupersedes(t *testing.T) {
	s := New()
	t1 := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	s.Replace(batch(1, 3, t1), t1)
	s.Replace(batch(2, 2, t2), t2)

	snap := s.Current()
	require.Len(t, snap.Records, 2)
	require.NotNil(t, snap.LastUpdate)
	assert.Equal(t, t2, *snap.LastUpdate)
	assert.Equal(t, "g2-r0", snap.Records[0].ID)
}

func TestSnapshotStore_CallerCannotMutateCommittedData(t *testing.T) {
	s := New()
	ts := time.Now()
	recs := batch(1, 2, ts)
	s.Replace(recs, ts)

	recs[0].ID = "changed"
	got := s.Records()
	assert.Equal(t, "g1-r0", got[0].ID)

	got[1].ID = "changed"
	assert.Equal(t, "g1-r1", s.Records()[1].ID)
}

// Readers racing a writer must always see one whole generation.
func TestSnapshotStore_ReadersNeverSeeMixedGenerations(t *testing.T) {
	s := New()
	ts := time.Now()
	s.Replace(batch(0, 20, ts), ts)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				recs := s.Records()
				if len(recs) != 20 {
					t.Errorf("partial snapshot of %d records", len(recs))
					return
				}
				gen := recs[0].DisplayName
				for _, rec := range recs {
					if rec.DisplayName != gen {
						t.Errorf("mixed generations %s and %s", gen, rec.DisplayName)
						return
					}
				}
			}
		}()
	}
	for gen := 1; gen <= 200; gen++ {
		s.Replace(batch(gen, 20, ts), ts)
	}
	close(stop)
	wg.Wait()
}

func TestSnapshotStore_Generation(t *testing.T) {
	s := New()
	assert.Zero(t, s.Generation())

	ts := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	s.Replace(batch(1, 2, ts), ts)
	assert.Equal(t, uint64(1), s.Generation())

	// same timestamp, still a new generation
	s.Replace(batch(2, 2, ts), ts)
	assert.Equal(t, uint64(2), s.Generation())
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/room-occupancy/internal/model"
	"github.com/iliyamo/room-occupancy/internal/queue"
	"github.com/iliyamo/room-occupancy/internal/scraper"
	"github.com/iliyamo/room-occupancy/internal/store"
)

const fixturePage = `<!DOCTYPE html><html><body>
<div id="__next">
  <svg><g id="room-A1"><use class="room occupied"></use></g><g id="room-B2"><use class="room reserved"></use></g></svg>
  <div class="MuiCard-root"><h6>A1</h6><p>9h-10h</p><p>Math Class</p></div>
</div>
<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"townData":{"rooms":[
  {"intra_name":"r1","name":"Room One","display_name":"A1","floor":0,"seats":10},
  {"intra_name":"r2","name":"Room Two","display_name":"B2","floor":1,"seats":20},
  {"intra_name":"r3","name":"Room Three","display_name":"C3","floor":2,"seats":30}
]}}}}</script>
</body></html>`

// pageServer serves whatever body/status the test sets.
type pageServer struct {
	mu     sync.Mutex
	status int
	body   string
	hits   atomic.Int32
	srv    *httptest.Server
}

func newPageServer(t *testing.T) *pageServer {
	ps := &pageServer{status: http.StatusOK, body: fixturePage}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.hits.Add(1)
		ps.mu.Lock()
		status, body := ps.status, ps.body
		ps.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ps.srv.Close)
	return ps
}

func (ps *pageServer) set(status int, body string) {
	ps.mu.Lock()
	ps.status, ps.body = status, body
	ps.mu.Unlock()
}

var clock = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func newRefresher(t *testing.T, ps *pageServer, opts ...Option) (*Refresher, *store.SnapshotStore) {
	s := store.New()
	opts = append([]Option{WithClock(func() time.Time { return clock })}, opts...)
	r := NewRefresher(ps.srv.URL, scraper.NewPageFetcher("", time.Second), s, zap.NewNop(), opts...)
	return r, s
}

func TestRefresher_CommitsReconciledSnapshot(t *testing.T) {
	ps := newPageServer(t)
	r, s := newRefresher(t, ps)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.RoomCount)
	assert.Equal(t, clock, res.RefreshedAt)
	assert.Equal(t, StateIdle, r.State())

	snap := s.Current()
	require.NotNil(t, snap.LastUpdate)
	assert.Equal(t, clock, *snap.LastUpdate)
	require.Len(t, snap.Records, 3)

	a1 := snap.Records[0]
	assert.Equal(t, "r1", a1.ID)
	assert.Equal(t, model.StatusOccupied, a1.Status)
	assert.Equal(t, 10, a1.Seats)
	require.NotNil(t, a1.TimeSlot)
	assert.Equal(t, "9h-10h", *a1.TimeSlot)
	require.NotNil(t, a1.CurrentActivity)
	assert.Equal(t, "Math Class", *a1.CurrentActivity)
	assert.Equal(t, clock, a1.LastUpdated)

	assert.Equal(t, model.StatusReserved, snap.Records[1].Status)

	c3 := snap.Records[2]
	assert.Equal(t, model.StatusFree, c3.Status)
	assert.Nil(t, c3.TimeSlot)
	assert.Nil(t, c3.CurrentActivity)
}

func TestRefresher_FailuresLeaveSnapshotUntouched(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		stage  State
		target any
	}{
		{"http 500", http.StatusInternalServerError, "oops", StateFetching, new(*scraper.TransportError)},
		{"no data script", http.StatusOK, "<html><body>down for maintenance</body></html>", StateParsing, new(*scraper.MissingDataError)},
		{"broken json", http.StatusOK, `<script id="__NEXT_DATA__">{"props":</script>`, StateParsing, new(*scraper.MissingDataError)},
		{"shape changed", http.StatusOK, `<script id="__NEXT_DATA__">{"props":{"pageProps":{"campus":{}}}}</script>`, StateExtracting, new(*scraper.SchemaError)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ps := newPageServer(t)
			r, s := newRefresher(t, ps)
			_, err := r.Run(context.Background())
			require.NoError(t, err)
			before := s.Current()

			ps.set(tc.status, tc.body)
			_, err = r.Run(context.Background())
			require.Error(t, err)

			var re *RefreshError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tc.stage, re.Stage)
			assert.True(t, errors.As(err, tc.target), "unexpected cause %v", err)
			assert.Equal(t, StateIdle, r.State())
			assert.Equal(t, before, s.Current())
		})
	}
}

func TestRefresher_FailureBeforeFirstSuccessKeepsStoreEmpty(t *testing.T) {
	ps := newPageServer(t)
	ps.set(http.StatusBadGateway, "")
	r, s := newRefresher(t, ps)

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, s.Current().Empty())
}

func TestRefresher_CommitHooks(t *testing.T) {
	ps := newPageServer(t)
	var got []model.Snapshot
	r, _ := newRefresher(t, ps,
		WithCommitHook("record", func(ctx context.Context, snap model.Snapshot) error {
			got = append(got, snap)
			return nil
		}),
		WithCommitHook("broken", func(ctx context.Context, snap model.Snapshot) error {
			return errors.New("hook down")
		}),
	)

	_, err := r.Run(context.Background())
	require.NoError(t, err, "a failing hook must not fail the refresh")
	require.Len(t, got, 1)
	assert.Len(t, got[0].Records, 3)

	ps.set(http.StatusInternalServerError, "")
	_, err = r.Run(context.Background())
	require.Error(t, err)
	assert.Len(t, got, 1, "hooks only run after a commit")
}

type fakePublisher struct {
	events []queue.RoomsRefreshedEvent
}

func (f *fakePublisher) Publish(_ context.Context, ev queue.RoomsRefreshedEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func TestPublishRefreshedHook(t *testing.T) {
	ps := newPageServer(t)
	pub := &fakePublisher{}
	r, _ := newRefresher(t, ps, WithCommitHook("publish", PublishRefreshed(pub, ps.srv.URL)))

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, 3, ev.RoomCount)
	assert.Equal(t, 1, ev.Occupied)
	assert.Equal(t, 1, ev.Reserved)
	assert.Equal(t, 1, ev.Free)
	assert.Equal(t, 33, ev.OccupancyRate)
	assert.Equal(t, "2026-10-18T09:00:00Z", ev.RefreshedAt)
	assert.NotEmpty(t, ev.EventID)
}

// slowFetcher blocks until released so overlapping runs can be observed.
type slowFetcher struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	n        atomic.Int32
}

func (f *slowFetcher) Fetch(ctx context.Context, url string) (string, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if cur <= m || f.maxSeen.CompareAndSwap(m, cur) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	n := f.n.Add(1)
	return fmt.Sprintf(`<script id="__NEXT_DATA__">{"props":{"pageProps":{"townData":{"rooms":[{"intra_name":"run-%d"}]}}}}</script>`, n), nil
}

func TestRefresher_RunsAreSerialized(t *testing.T) {
	f := &slowFetcher{}
	s := store.New()
	r := NewRefresher("http://unused", f, s, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Run(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.maxSeen.Load())
	assert.Equal(t, int32(5), f.n.Load())
	// the last fetch is the one committed
	assert.Equal(t, "run-5", s.Records()[0].ID)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "reconciling", StateReconciling.String())
	assert.Equal(t, "state(42)", State(42).String())
}

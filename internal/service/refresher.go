// Package service runs the refresh pipeline that turns the source page into
// a committed room snapshot.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/room-occupancy/internal/model"
	"github.com/iliyamo/room-occupancy/internal/scraper"
	"github.com/iliyamo/room-occupancy/internal/store"
)

// State is the stage a refresh is in.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateParsing
	StateExtracting
	StateReconciling
	StateCommitting
	StateFailed
)

var stateNames = [...]string{"idle", "fetching", "parsing", "extracting", "reconciling", "committing", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// RefreshError tags a pipeline failure with the stage it happened in.  The
// wrapped error is one of the scraper error types.
type RefreshError struct {
	Stage State
	Err   error
}

func (e *RefreshError) Error() string { return "refresh " + e.Stage.String() + ": " + e.Err.Error() }

func (e *RefreshError) Unwrap() error { return e.Err }

// Result describes a committed refresh.
type Result struct {
	RoomCount   int
	RefreshedAt time.Time
	Duration    time.Duration
}

// CommitHook runs after a snapshot is committed.  Hooks are best effort:
// a failing hook is logged and does not fail the refresh.
type CommitHook func(ctx context.Context, snap model.Snapshot) error

type namedHook struct {
	name string
	fn   CommitHook
}

// Refresher sequences fetch, parse, extract, reconcile and commit.  Run is
// serialized, so concurrent triggers commit one after the other and never
// out of order.
type Refresher struct {
	url        string
	fetcher    scraper.Fetcher
	reconciler *scraper.Reconciler
	store      *store.SnapshotStore
	logger     *zap.Logger
	now        func() time.Time
	hooks      []namedHook
	hookTTL    time.Duration

	mu    sync.Mutex
	state atomic.Int32
}

// Option customizes a Refresher.
type Option func(*Refresher)

// WithReconciler replaces the default substring-matching reconciler.
func WithReconciler(rc *scraper.Reconciler) Option {
	return func(r *Refresher) { r.reconciler = rc }
}

// WithClock sets the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

// WithCommitHook registers fn to run after every successful commit.
func WithCommitHook(name string, fn CommitHook) Option {
	return func(r *Refresher) { r.hooks = append(r.hooks, namedHook{name: name, fn: fn}) }
}

// NewRefresher wires a refresher for url.
func NewRefresher(url string, fetcher scraper.Fetcher, s *store.SnapshotStore, logger *zap.Logger, opts ...Option) *Refresher {
	r := &Refresher{
		url:        url,
		fetcher:    fetcher,
		reconciler: scraper.NewReconciler(),
		store:      s,
		logger:     logger,
		now:        time.Now,
		hookTTL:    10 * time.Second,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// State reports the stage of the refresh in progress, or StateIdle.
func (r *Refresher) State() State { return State(r.state.Load()) }

// URL is the page this refresher scrapes.
func (r *Refresher) URL() string { return r.url }

// Run performs one refresh.  On failure the store is left untouched and a
// *RefreshError is returned; there is no retry.
func (r *Refresher) Run(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	res, err := r.run(ctx)
	if err != nil {
		r.setState(StateFailed)
		r.logger.Error("refresh failed", zap.String("url", r.url), zap.Error(err))
		r.setState(StateIdle)
		return Result{}, err
	}
	res.Duration = time.Since(start)
	r.setState(StateIdle)

	r.logger.Info("rooms refreshed",
		zap.Int("rooms", res.RoomCount),
		zap.Duration("took", res.Duration),
	)
	r.runHooks(ctx)
	return res, nil
}

func (r *Refresher) run(ctx context.Context) (Result, error) {
	r.setState(StateFetching)
	html, err := r.fetcher.Fetch(ctx, r.url)
	if err != nil {
		return Result{}, &RefreshError{Stage: StateFetching, Err: err}
	}

	r.setState(StateParsing)
	doc, err := scraper.ParseDocument(html)
	if err != nil {
		return Result{}, &RefreshError{Stage: StateParsing, Err: err}
	}

	r.setState(StateExtracting)
	rooms, err := scraper.ExtractCatalog(doc.Data)
	if err != nil {
		return Result{}, &RefreshError{Stage: StateExtracting, Err: err}
	}

	r.setState(StateReconciling)
	ts := r.now()
	records := r.reconciler.Reconcile(doc.Tree, rooms, ts)

	r.setState(StateCommitting)
	r.store.Replace(records, ts)
	return Result{RoomCount: len(records), RefreshedAt: ts}, nil
}

func (r *Refresher) runHooks(ctx context.Context) {
	if len(r.hooks) == 0 {
		return
	}
	// hooks outlive a cancelled trigger request but not hookTTL
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.hookTTL)
	defer cancel()
	snap := r.store.Current()
	for _, h := range r.hooks {
		if err := h.fn(hctx, snap); err != nil {
			r.logger.Warn("commit hook failed", zap.String("hook", h.name), zap.Error(err))
		}
	}
}

func (r *Refresher) setState(s State) { r.state.Store(int32(s)) }

// Package scheduler fires the refresh trigger on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Trigger is the job the scheduler runs.
type Trigger func(ctx context.Context) error

// Scheduler runs a Trigger at every activation of a cron schedule.  Runs
// never overlap: the next activation is computed after the previous run
// returns, and activations missed while a run is in flight are skipped.
type Scheduler struct {
	schedule   cron.Schedule
	trigger    Trigger
	runOnStart bool
	logger     *zap.Logger
	now        func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// RunOnStart makes Start fire the trigger once immediately.
func RunOnStart(v bool) Option {
	return func(s *Scheduler) { s.runOnStart = v }
}

// Parse reads a standard five-field cron expression (or a descriptor such
// as "@hourly" / "@every 10m").
func Parse(spec string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return sched, nil
}

// New builds a scheduler from a cron expression.
func New(spec string, trigger Trigger, logger *zap.Logger, opts ...Option) (*Scheduler, error) {
	sched, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	return NewWithSchedule(sched, trigger, logger, opts...), nil
}

// NewWithSchedule builds a scheduler from an already parsed schedule.
func NewWithSchedule(sched cron.Schedule, trigger Trigger, logger *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		schedule: sched,
		trigger:  trigger,
		logger:   logger,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start launches the scheduling loop in the background.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the loop and waits for a run in flight to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	if s.runOnStart {
		s.fire(ctx, "startup")
	}
	for {
		now := s.now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			s.logger.Warn("schedule has no future activation, stopping")
			return
		}
		s.logger.Debug("next scheduled refresh", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.fire(ctx, "schedule")
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, reason string) {
	s.logger.Info("refresh triggered", zap.String("reason", reason))
	if err := s.trigger(ctx); err != nil {
		s.logger.Warn("triggered refresh failed", zap.String("reason", reason), zap.Error(err))
	}
}

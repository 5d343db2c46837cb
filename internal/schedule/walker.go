package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avstage/broadcastd/internal/events"
)

const defaultScanInterval = time.Second

// Dispatcher executes the actions of one matched event. The walker calls
// it synchronously: the scan does not advance until the event is done.
type Dispatcher interface {
	Dispatch(ctx context.Context, programme string, event Event)
}

// Walker is the outer control loop: it repeatedly computes the current
// time of day, scans programmes in declaration order and dispatches every
// event whose window contains now.
//
// Overlapping windows dispatch repeatedly across passes. That matches the
// declarative model: an event stays eligible for its whole window and the
// schedule author bounds re-triggering with action durations.
type Walker struct {
	mu    sync.RWMutex
	sched *Schedule

	dispatcher Dispatcher
	bus        *events.Bus
	logger     *slog.Logger
	now        func() time.Time
	interval   time.Duration
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) WalkerOption {
	return func(w *Walker) { w.now = now }
}

// WithScanInterval sets the pause between scan passes.
func WithScanInterval(d time.Duration) WalkerOption {
	return func(w *Walker) { w.interval = d }
}

// NewWalker creates a schedule walker.
func NewWalker(sched *Schedule, dispatcher Dispatcher, bus *events.Bus, logger *slog.Logger, opts ...WalkerOption) *Walker {
	w := &Walker{
		sched:      sched,
		dispatcher: dispatcher,
		bus:        bus,
		logger:     logger,
		now:        time.Now,
		interval:   defaultScanInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run loops until the context is cancelled.
func (w *Walker) Run(ctx context.Context) error {
	w.logger.Info("Schedule walker started", "programmes", len(w.Snapshot().Programmes))

	for {
		w.pass(ctx, TimeOfDayFrom(w.now()))

		select {
		case <-ctx.Done():
			w.logger.Info("Schedule walker stopped")
			return ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// RunOnce performs a single pass at a forced time of day. Debug mode:
// lets an operator exercise the schedule without waiting for the clock.
func (w *Walker) RunOnce(ctx context.Context, at TimeOfDay) {
	w.logger.Info("Debug pass", "time", at.String())
	w.pass(ctx, at)
}

// Reload swaps in a new schedule between passes.
func (w *Walker) Reload(sched *Schedule) {
	w.mu.Lock()
	w.sched = sched
	w.mu.Unlock()

	w.logger.Info("Schedule reloaded", "programmes", len(sched.Programmes))
	w.bus.Publish(events.ScheduleReloadedEvent{Programmes: len(sched.Programmes), At: w.now()})
}

// Snapshot returns the current schedule for observation surfaces.
func (w *Walker) Snapshot() *Schedule {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.sched
}

// pass scans every programme and synchronously dispatches each event
// whose window contains now, in declaration order.
func (w *Walker) pass(ctx context.Context, now TimeOfDay) {
	sched := w.Snapshot()

	for _, programme := range sched.Programmes {
		for _, event := range programme.Events {
			if ctx.Err() != nil {
				return
			}
			if !event.Contains(now) {
				continue
			}

			w.logger.Info("Executing event",
				"programme", programme.Name,
				"event", event.Name,
				"window", event.Start.String()+"-"+event.End.String(),
				"now", now.String())
			w.bus.Publish(events.EventStartedEvent{Programme: programme.Name, Event: event.Name, At: w.now()})

			started := w.now()
			w.dispatcher.Dispatch(ctx, programme.Name, event)

			w.bus.Publish(events.EventFinishedEvent{
				Programme: programme.Name,
				Event:     event.Name,
				Duration:  w.now().Sub(started),
			})
			w.logger.Info("Event ended", "programme", programme.Name, "event", event.Name)
		}
	}
}

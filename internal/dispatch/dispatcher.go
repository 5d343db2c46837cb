// Package dispatch executes the actions of one matched schedule event:
// media inserts run concurrently, display modes run sequentially, and
// queued camera moves drain alongside the display phase.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avstage/broadcastd/internal/camera"
	"github.com/avstage/broadcastd/internal/compose"
	"github.com/avstage/broadcastd/internal/events"
	"github.com/avstage/broadcastd/internal/logging"
	"github.com/avstage/broadcastd/internal/media"
	"github.com/avstage/broadcastd/internal/metrics"
	"github.com/avstage/broadcastd/internal/schedule"
)

// DefaultCadence is the display render interval (25 fps).
const DefaultCadence = 40 * time.Millisecond

// CameraLookup resolves roster identifiers to camera handles.
type CameraLookup interface {
	Get(id int) (camera.Camera, bool)
}

// Config wires the dispatcher's collaborators. Compositor, Sink,
// Background and Cadence have working defaults; the rest are required.
type Config struct {
	Cameras    CameraLookup
	Modes      *compose.ModeBook
	Player     media.Player
	Bus        *events.Bus
	Compositor compose.Compositor
	Sink       compose.Sink
	Background *camera.Frame
	Cadence    time.Duration
}

// Dispatcher runs one schedule event at a time through the phases
// classify, concurrent media, sequential modes.
type Dispatcher struct {
	cams       CameraLookup
	modes      *compose.ModeBook
	player     media.Player
	bus        *events.Bus
	comp       compose.Compositor
	sink       compose.Sink
	background *camera.Frame
	cadence    time.Duration
	logger     *slog.Logger
}

// New creates a dispatcher from cfg, filling in defaults.
func New(cfg Config) *Dispatcher {
	d := &Dispatcher{
		cams:       cfg.Cameras,
		modes:      cfg.Modes,
		player:     cfg.Player,
		bus:        cfg.Bus,
		comp:       cfg.Compositor,
		sink:       cfg.Sink,
		background: cfg.Background,
		cadence:    cfg.Cadence,
		logger:     logging.GetLogger("dispatch"),
	}
	if d.comp == nil {
		d.comp = compose.Passthrough{}
	}
	if d.sink == nil {
		d.sink = compose.DiscardSink{}
	}
	if d.background == nil {
		d.background = &camera.Frame{}
	}
	if d.cadence <= 0 {
		d.cadence = DefaultCadence
	}
	return d
}

// eventPlan is the classified form of one event's action list.
type eventPlan struct {
	audio *schedule.Action
	video *schedule.Action
	modes []schedule.Action
	moves *MoveQueue
}

// Dispatch runs every action of the event and returns when the event is
// done. Single-action failures are logged and skipped, never aborting
// the rest of the event.
func (d *Dispatcher) Dispatch(ctx context.Context, programme string, ev schedule.Event) {
	started := time.Now()
	d.logger.Info("Dispatching event", "programme", programme, "event", ev.Name, "actions", len(ev.Actions))

	plan := d.classify(ev)
	d.runMedia(ctx, ev.Name, plan)
	d.runModes(ctx, ev.Name, plan)

	metrics.EventDispatched(time.Since(started))
	d.logger.Info("Event done", "event", ev.Name, "took", time.Since(started))
}

// classify partitions the event's actions: at most one audio and one
// video insert, display modes in declaration order, and camera moves
// pushed to a fresh queue in declaration order.
func (d *Dispatcher) classify(ev schedule.Event) eventPlan {
	plan := eventPlan{moves: NewMoveQueue()}
	for i := range ev.Actions {
		a := &ev.Actions[i]
		switch a.Kind {
		case schedule.KindPlayAudio:
			if plan.audio != nil {
				d.logger.Warn("Event declares more than one audio action, keeping the first", "event", ev.Name)
				continue
			}
			plan.audio = a
		case schedule.KindPlayVideo:
			if plan.video != nil {
				d.logger.Warn("Event declares more than one video action, keeping the first", "event", ev.Name)
				continue
			}
			plan.video = a
		case schedule.KindDisplayMode:
			plan.modes = append(plan.modes, *a)
		case schedule.KindCameraMove:
			plan.moves.Push(*a)
		}
	}
	return plan
}

// runMedia starts the audio and video inserts together and waits for
// both to finish.
func (d *Dispatcher) runMedia(ctx context.Context, eventName string, plan eventPlan) {
	var wg sync.WaitGroup
	for _, act := range []*schedule.Action{plan.audio, plan.video} {
		if act == nil {
			continue
		}
		wg.Add(1)
		go func(a schedule.Action) {
			defer wg.Done()
			d.playInsert(ctx, eventName, a)
		}(*act)
	}
	wg.Wait()
}

func (d *Dispatcher) playInsert(ctx context.Context, eventName string, a schedule.Action) {
	var err error
	switch a.Kind {
	case schedule.KindPlayAudio:
		err = d.player.PlayAudio(ctx, a.File, a.Duration)
	case schedule.KindPlayVideo:
		err = d.player.PlayVideo(ctx, a.File, a.Duration)
	}
	if err != nil {
		d.actionFailed(eventName, a.Kind, err.Error())
		return
	}
	metrics.ActionDispatched(a.Kind.String(), true)
}

// runModes runs the display-mode actions sequentially while a single
// drain goroutine works through the move queue snapshot.
func (d *Dispatcher) runModes(ctx context.Context, eventName string, plan eventPlan) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		plan.moves.Drain(ctx, d.cams, d.bus, d.logger)
	}()
	for _, act := range plan.modes {
		d.runDisplay(ctx, eventName, act)
	}
	wg.Wait()
}

// actionFailed records a skipped action: warn log, failure metric, bus event.
func (d *Dispatcher) actionFailed(eventName string, kind schedule.Kind, reason string) {
	d.logger.Warn("Action failed, skipping", "event", eventName, "kind", kind.String(), "reason", reason)
	metrics.ActionDispatched(kind.String(), false)
	if d.bus != nil {
		d.bus.Publish(events.ActionFailedEvent{Event: eventName, Kind: kind.String(), Reason: reason})
	}
}

package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/avstage/broadcastd/internal/camera"
	"github.com/avstage/broadcastd/internal/compose"
	"github.com/avstage/broadcastd/internal/metrics"
	"github.com/avstage/broadcastd/internal/schedule"
)

// runDisplay renders the mode's layout at the configured cadence for the
// action's declared duration. The duration timer is the loop's only
// cancellation besides ctx; compositor errors drop the frame, not the mode.
func (d *Dispatcher) runDisplay(ctx context.Context, eventName string, act schedule.Action) {
	mode, ok := d.modes.Get(act.Mode)
	if !ok {
		d.actionFailed(eventName, act.Kind, fmt.Sprintf("unknown display mode %q", act.Mode))
		return
	}

	d.logger.Info("Display mode active", "event", eventName, "mode", act.Mode, "duration", act.Duration)

	deadline := time.NewTimer(act.Duration)
	defer deadline.Stop()
	ticker := time.NewTicker(d.cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			metrics.ActionDispatched(act.Kind.String(), true)
			return
		case <-ticker.C:
			d.renderOnce(mode)
		}
	}
}

// renderOnce samples each region's camera frame and composites them over
// the background. Cameras without a frame yet are left out of the layout.
func (d *Dispatcher) renderOnce(mode compose.Mode) {
	frames := make(map[int]*camera.Frame, len(mode.Regions))
	for _, id := range mode.Cameras() {
		cam, ok := d.cams.Get(id)
		if !ok {
			continue
		}
		if f := cam.Frame(); f != nil {
			frames[id] = f
		}
	}

	out, err := d.comp.Compose(d.background, frames, mode)
	if err != nil {
		metrics.FrameComposited(false)
		d.logger.Debug("Compositor error, frame dropped", "mode", mode.Name, "error", err)
		return
	}
	metrics.FrameComposited(true)

	if err := d.sink.Display(out); err != nil {
		d.logger.Debug("Display sink error", "mode", mode.Name, "error", err)
	}
}

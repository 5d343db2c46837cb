package camera

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avstage/broadcastd/internal/metrics"
)

const defaultStopGrace = 2 * time.Second

// acquisition owns the frame slot and the background loop that fills it.
// It is embedded by every camera kind so lifecycle semantics (idempotent
// start/stop, bounded join, single-writer slot) are identical across kinds.
type acquisition struct {
	cameraID int
	slot     atomic.Pointer[Frame]
	running  atomic.Bool
	seq      atomic.Uint64

	// lifecycle serializes start/halt so the channels are never observed
	// half-initialized. The frame slot stays lock-free.
	lifecycle sync.Mutex
	stopCh    chan struct{}
	doneCh    chan struct{}

	grace  time.Duration
	logger *slog.Logger
}

func newAcquisition(cameraID int, logger *slog.Logger) acquisition {
	return acquisition{
		cameraID: cameraID,
		grace:    defaultStopGrace,
		logger:   logger,
	}
}

// latest returns the most recent frame, or nil. Never blocks.
func (a *acquisition) latest() *Frame {
	return a.slot.Load()
}

// isRunning reports whether the loop is active.
func (a *acquisition) isRunning() bool {
	return a.running.Load()
}

// start spawns the acquisition loop against the given source. Starting an
// already-running acquisition is a no-op with a warning.
func (a *acquisition) start(src Source) {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	if a.running.Load() {
		a.logger.Warn("Camera is already capturing frames", "camera_id", a.cameraID)
		return
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	a.running.Store(true)
	go a.loop(src, a.stopCh, a.doneCh)
	a.logger.Info("Started frame acquisition", "camera_id", a.cameraID)
}

// halt signals the loop to exit and waits up to the grace period. A loop
// that does not exit in time is logged and abandoned; the source is closed
// either way so a blocked Next call unblocks.
func (a *acquisition) halt(src Source) {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	if !a.running.Load() {
		return
	}
	a.running.Store(false)

	close(a.stopCh)

	select {
	case <-a.doneCh:
	case <-time.After(a.grace):
		a.logger.Warn("Acquisition loop did not stop within grace period", "camera_id", a.cameraID, "grace", a.grace)
	}

	if src != nil {
		if err := src.Close(); err != nil {
			a.logger.Warn("Failed to close frame source", "camera_id", a.cameraID, "error", err)
		}
	}
	a.logger.Info("Stopped frame acquisition", "camera_id", a.cameraID)
}

// loop pulls frames until stopped or the source fails. Each successful
// pull atomically replaces the frame slot; failures end the loop rather
// than busy-retrying against a dead source.
func (a *acquisition) loop(src Source, stopCh chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)

	interval := src.Interval()

	for a.running.Load() {
		started := time.Now()

		frame, err := src.Next()
		if err != nil {
			if errors.Is(err, ErrSourceExhausted) {
				a.logger.Info("Frame source ended", "camera_id", a.cameraID)
				a.slot.Store(nil)
			} else {
				a.logger.Warn("Failed to capture frame", "camera_id", a.cameraID, "error", err)
			}
			return
		}

		frame.Seq = a.seq.Add(1)
		if frame.Taken.IsZero() {
			frame.Taken = time.Now()
		}
		a.slot.Store(frame)
		metrics.FrameAcquired(a.cameraID, frame.Taken)

		if interval > 0 {
			// Pace to the source's declared rate, waking early on stop.
			if remaining := interval - time.Since(started); remaining > 0 {
				select {
				case <-stopCh:
					return
				case <-time.After(remaining):
				}
			}
		} else {
			select {
			case <-stopCh:
				return
			default:
			}
		}
	}
}

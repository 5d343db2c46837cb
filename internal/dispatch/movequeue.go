package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avstage/broadcastd/internal/camera"
	"github.com/avstage/broadcastd/internal/events"
	"github.com/avstage/broadcastd/internal/schedule"
)

// queuedMove is one pending PTZ motion waiting in the queue.
type queuedMove struct {
	cameraID int
	op       string
	marker   int
	duration time.Duration
}

// MoveQueue is a FIFO of pending camera moves. The dispatcher pushes
// during classification; exactly one drain goroutine consumes. Moves are
// never reordered or overlapped, PTZ heads take one motion at a time.
type MoveQueue struct {
	mu    sync.Mutex
	items []queuedMove
}

// NewMoveQueue returns an empty queue.
func NewMoveQueue() *MoveQueue {
	return &MoveQueue{}
}

// Push appends a camera-move action to the queue.
func (q *MoveQueue) Push(a schedule.Action) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, queuedMove{
		cameraID: a.Camera,
		op:       a.Op,
		marker:   a.Marker,
		duration: a.Duration,
	})
}

// Len returns the number of queued moves.
func (q *MoveQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *MoveQueue) pop() (queuedMove, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return queuedMove{}, false
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m, true
}

// Drain executes queued moves until the queue is empty: send the motion
// command, hold for the declared duration, send Stop, repeat. A move
// naming an unknown camera is a logged no-op. Cancellation stops the
// current motion before returning.
func (q *MoveQueue) Drain(ctx context.Context, cams CameraLookup, bus *events.Bus, logger *slog.Logger) {
	for {
		m, ok := q.pop()
		if !ok {
			return
		}
		cam, ok := cams.Get(m.cameraID)
		if !ok {
			logger.Warn("Camera move references unknown camera", "camera_id", m.cameraID, "op", m.op)
			continue
		}
		if err := cam.SendPTZ(camera.CmdPtzCtrl, m.op, m.marker); err != nil {
			logger.Warn("Camera move failed", "camera_id", m.cameraID, "op", m.op, "error", err)
			continue
		}
		interrupted := !sleepCtx(ctx, m.duration)
		if err := cam.SendPTZ(camera.CmdPtzCtrl, camera.OpStop, 0); err != nil {
			logger.Warn("Camera stop failed", "camera_id", m.cameraID, "error", err)
		}
		if interrupted {
			return
		}
		if bus != nil {
			bus.Publish(events.CameraMoveEvent{CameraID: m.cameraID, Op: m.op, Marker: m.marker})
		}
	}
}

// sleepCtx sleeps for d, returning false if ctx was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

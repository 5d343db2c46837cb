// Package metrics provides Prometheus metrics for the broadcast node:
// frame acquisition, camera authentication, schedule dispatch and PTZ motion.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesAcquired = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "broadcastd",
		Subsystem: "camera",
		Name:      "frames_total",
		Help:      "Frames acquired per camera",
	}, []string{"camera_id"})

	lastFrameTime = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "broadcastd",
		Subsystem: "camera",
		Name:      "last_frame_timestamp_seconds",
		Help:      "Unix timestamp of the most recent acquired frame",
	}, []string{"camera_id"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "broadcastd",
		Subsystem: "camera",
		Name:      "auth_attempts_total",
		Help:      "Camera login attempts by result",
	}, []string{"camera_id", "result"})

	ptzMoves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "broadcastd",
		Subsystem: "camera",
		Name:      "ptz_moves_total",
		Help:      "PTZ operations sent per camera",
	}, []string{"camera_id", "op"})

	actionsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "broadcastd",
		Subsystem: "dispatch",
		Name:      "actions_total",
		Help:      "Actions executed by kind and result",
	}, []string{"kind", "result"})

	eventsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "broadcastd",
		Subsystem: "dispatch",
		Name:      "events_total",
		Help:      "Schedule events dispatched",
	})

	dispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "broadcastd",
		Subsystem: "dispatch",
		Name:      "event_duration_seconds",
		Help:      "Wall time spent dispatching one event",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	framesComposited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "broadcastd",
		Subsystem: "display",
		Name:      "frames_total",
		Help:      "Composited display frames by result",
	}, []string{"result"})
)

// FrameAcquired records one acquired frame for a camera.
func FrameAcquired(cameraID int, taken time.Time) {
	id := strconv.Itoa(cameraID)
	framesAcquired.WithLabelValues(id).Inc()
	lastFrameTime.WithLabelValues(id).Set(float64(taken.UnixNano()) / 1e9)
}

// AuthAttempt records one camera login attempt.
func AuthAttempt(cameraID int, ok bool) {
	authAttempts.WithLabelValues(strconv.Itoa(cameraID), resultLabel(ok)).Inc()
}

// PTZMove records one PTZ operation sent to a camera.
func PTZMove(cameraID int, op string) {
	ptzMoves.WithLabelValues(strconv.Itoa(cameraID), op).Inc()
}

// ActionDispatched records one executed action by kind.
func ActionDispatched(kind string, ok bool) {
	actionsDispatched.WithLabelValues(kind, resultLabel(ok)).Inc()
}

// EventDispatched records one dispatched schedule event and its duration.
func EventDispatched(d time.Duration) {
	eventsDispatched.Inc()
	dispatchDuration.Observe(d.Seconds())
}

// FrameComposited records one display composition pass.
func FrameComposited(ok bool) {
	framesComposited.WithLabelValues(resultLabel(ok)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

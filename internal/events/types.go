// Package events provides the in-process event bus for broadcast
// lifecycle notifications: schedule dispatch, action failures, camera
// motion and configuration reloads.
package events

import "time"

// Event type constants for kelindar/event.
const (
	TypeEventStarted uint32 = iota + 1
	TypeEventFinished
	TypeActionFailed
	TypeCameraMove
	TypeScheduleReloaded
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// EventStartedEvent is published when the walker dispatches a schedule event.
type EventStartedEvent struct {
	Programme string    `json:"programme" example:"morning" doc:"Programme name"`
	Event     string    `json:"event" example:"arrival" doc:"Event name"`
	At        time.Time `json:"at" doc:"Dispatch time"`
}

// Type returns the event type identifier for EventStartedEvent.
func (e EventStartedEvent) Type() uint32 { return TypeEventStarted }

// EventFinishedEvent is published when a dispatched event reaches Done.
type EventFinishedEvent struct {
	Programme string        `json:"programme" doc:"Programme name"`
	Event     string        `json:"event" doc:"Event name"`
	Duration  time.Duration `json:"duration" doc:"Wall time the event took"`
}

// Type returns the event type identifier for EventFinishedEvent.
func (e EventFinishedEvent) Type() uint32 { return TypeEventFinished }

// ActionFailedEvent is published when a single action fails during
// dispatch. The event it belongs to keeps running.
type ActionFailedEvent struct {
	Event  string `json:"event" doc:"Owning schedule event"`
	Kind   string `json:"kind" example:"camera_move" doc:"Action kind"`
	Reason string `json:"reason" doc:"Failure description"`
}

// Type returns the event type identifier for ActionFailedEvent.
func (e ActionFailedEvent) Type() uint32 { return TypeActionFailed }

// CameraMoveEvent is published after a queued camera move was executed.
type CameraMoveEvent struct {
	CameraID int    `json:"camera_id" doc:"Roster identifier"`
	Op       string `json:"op" example:"Left" doc:"PTZ operation"`
	Marker   int    `json:"marker,omitempty" doc:"Preset marker for ToPos moves"`
}

// Type returns the event type identifier for CameraMoveEvent.
func (e CameraMoveEvent) Type() uint32 { return TypeCameraMove }

// ScheduleReloadedEvent is published when the schedule file was reloaded.
type ScheduleReloadedEvent struct {
	Programmes int       `json:"programmes" doc:"Number of programmes after reload"`
	At         time.Time `json:"at" doc:"Reload time"`
}

// Type returns the event type identifier for ScheduleReloadedEvent.
func (e ScheduleReloadedEvent) Type() uint32 { return TypeScheduleReloaded }

// Package schedule holds the declarative programme/event/action model and
// the walker that matches wall-clock time against event windows.
package schedule

import (
	"fmt"
	"time"
)

// Kind is the tagged variant discriminator for actions. Adding a kind is
// a compile-time-checked change: dispatch switches over Kind exhaustively.
type Kind int

// Action kinds, matched from the schedule file tags
// play_audio, play_video, video_mode and camera_move.
const (
	KindPlayAudio Kind = iota
	KindPlayVideo
	KindDisplayMode
	KindCameraMove
)

// String returns the schedule-file tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayAudio:
		return "play_audio"
	case KindPlayVideo:
		return "play_video"
	case KindDisplayMode:
		return "video_mode"
	case KindCameraMove:
		return "camera_move"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a schedule-file action tag to its Kind.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "play_audio":
		return KindPlayAudio, nil
	case "play_video":
		return KindPlayVideo, nil
	case "video_mode":
		return KindDisplayMode, nil
	case "camera_move":
		return KindCameraMove, nil
	default:
		return 0, fmt.Errorf("unknown action kind %q", tag)
	}
}

// Action is one scheduled step of an event. Kind selects which of the
// kind-specific fields are meaningful.
type Action struct {
	Kind     Kind
	Duration time.Duration

	// play_audio / play_video
	File string

	// video_mode
	Mode string

	// camera_move
	Camera int
	Op     string
	Marker int
	Speed  int
}

// Event is a named action list eligible during a half-open time-of-day
// window [Start, End).
type Event struct {
	Name    string
	Start   TimeOfDay
	End     TimeOfDay
	Actions []Action
}

// Contains reports whether t falls inside the event's window.
func (e Event) Contains(t TimeOfDay) bool {
	return e.Start <= t && t < e.End
}

// Programme is an ordered sequence of events.
type Programme struct {
	Name   string
	Events []Event
}

// Schedule is the full programme set driving the broadcast.
type Schedule struct {
	Programmes []Programme
}

// TimeOfDay is minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// TimeOfDayFrom extracts the time-of-day from a wall-clock time.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// String formats the time of day as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Package compose defines the display-layout model and the compositor
// contract. Pixel-level composition math lives behind the Compositor
// interface; this package only describes what goes where.
package compose

import (
	"sync/atomic"

	"github.com/avstage/broadcastd/internal/camera"
)

// Region places one camera feed on the background. Position is in
// background pixels; Scale is a percentage of the background size.
type Region struct {
	CameraID int `yaml:"camera" json:"camera"`
	X        int `yaml:"x" json:"x"`
	Y        int `yaml:"y" json:"y"`
	Scale    int `yaml:"scale" json:"scale"`
}

// Mode is a named screen layout: an ordered region list painted over the
// background, first region lowest.
type Mode struct {
	Name    string   `json:"name"`
	Regions []Region `json:"regions"`
}

// Cameras returns the roster identifiers the mode draws from.
func (m Mode) Cameras() []int {
	ids := make([]int, 0, len(m.Regions))
	for _, r := range m.Regions {
		ids = append(ids, r.CameraID)
	}
	return ids
}

// Compositor lays out camera frames onto a background buffer and returns
// the composited result. Implementations must not mutate the inputs.
type Compositor interface {
	Compose(background *camera.Frame, frames map[int]*camera.Frame, mode Mode) (*camera.Frame, error)
}

// Sink receives composited display frames.
type Sink interface {
	Display(frame *camera.Frame) error
}

// DiscardSink drops frames; used when no display output is attached.
type DiscardSink struct{}

// Display implements Sink.
func (DiscardSink) Display(*camera.Frame) error { return nil }

// LatestSink keeps the most recent composited frame in an atomic slot so
// observation surfaces can sample the display output.
type LatestSink struct {
	slot atomic.Pointer[camera.Frame]
}

// Display implements Sink.
func (s *LatestSink) Display(frame *camera.Frame) error {
	s.slot.Store(frame)
	return nil
}

// Latest returns the most recent displayed frame, or nil.
func (s *LatestSink) Latest() *camera.Frame {
	return s.slot.Load()
}

// Passthrough is the built-in compositor placeholder: it returns a clone
// of the background untouched. Deployments plug a real blitter in; the
// orchestration layer only cares that Compose returns a buffer.
type Passthrough struct{}

// Compose implements Compositor.
func (Passthrough) Compose(background *camera.Frame, _ map[int]*camera.Frame, _ Mode) (*camera.Frame, error) {
	return background.Clone(), nil
}

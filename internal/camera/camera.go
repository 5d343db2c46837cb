// Package camera provides the uniform control surface over broadcast video
// sources: frame delivery, PTZ control, connection health and lifecycle.
//
// Camera kinds are constructed through an explicit Registry so the roster
// builder can create handles from declarative configuration. Every handle
// owns a single-writer frame slot that a background acquisition goroutine
// updates; readers always observe a complete frame.
package camera

import (
	"time"
)

// Frame is a single decoded image in packed BGR byte order, 3 bytes per
// pixel, row-major. Frames stored in a handle's slot are immutable: the
// acquisition loop allocates a fresh Frame per capture and never touches
// it again after publishing.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
	Seq    uint64
	Taken  time.Time
}

// Clone returns a deep copy of the frame. Callers that need a mutable
// buffer (e.g. a compositor background) must clone first.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{
		Width:  f.Width,
		Height: f.Height,
		Pix:    pix,
		Seq:    f.Seq,
		Taken:  f.Taken,
	}
}

// Camera is the uniform contract over one video source.
//
// Frame never blocks and returns nil until acquisition has produced a
// frame. SendPTZ validates the operation before any device I/O and is
// non-fatal on failure. Start and Stop are idempotent.
type Camera interface {
	// ID returns the roster identifier declared in configuration.
	ID() int

	// Kind returns the registry kind tag this camera was built from.
	Kind() string

	// Frame returns the most recently acquired frame, or nil.
	Frame() *Frame

	// SendPTZ sends one motion command to the device. The operation is
	// validated against the PTZ vocabulary first; invalid operations fail
	// with ErrInvalidPTZOp without any device call.
	SendPTZ(command string, op string, marker int) error

	// Start spawns the frame acquisition loop. Starting a running camera
	// is a no-op with a warning.
	Start() error

	// Stop signals the acquisition loop to exit and waits up to a grace
	// period for it to finish. Stopping a stopped camera is a no-op.
	Stop()

	// Connected reports kind-specific connection health.
	Connected() bool

	// Info returns a status snapshot for the API surface.
	Info() Info
}

// Info is a point-in-time status snapshot of a camera handle.
type Info struct {
	ID        int       `json:"id" doc:"Roster identifier"`
	Kind      string    `json:"kind" example:"mock" doc:"Registry kind tag"`
	Running   bool      `json:"running" doc:"Whether the acquisition loop is active"`
	Connected bool      `json:"connected" doc:"Kind-specific connection health"`
	FrameSeq  uint64    `json:"frame_seq" doc:"Sequence number of the latest frame, 0 if none"`
	FrameTime time.Time `json:"frame_time,omitzero" doc:"Capture time of the latest frame"`
	Detail    string    `json:"detail,omitempty" doc:"Kind-specific detail (source, address)"`
}

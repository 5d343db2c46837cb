package camera

import "errors"

// Sentinel errors for the camera layer. Construction-time errors propagate
// out of Registry.Create so a bad camera does not silently vanish; the
// roster builder is the layer that tolerates and skips them.
var (
	// ErrUnknownKind is returned by Registry.Create for an unregistered kind tag.
	ErrUnknownKind = errors.New("unknown camera kind")

	// ErrInvalidPTZOp is returned before any device call when a motion
	// operation is not in the PTZ vocabulary.
	ErrInvalidPTZOp = errors.New("invalid ptz operation")

	// ErrAuthFailed is returned when login retries are exhausted. Callers
	// must treat it as "camera unauthenticated" and degrade, not abort.
	ErrAuthFailed = errors.New("camera authentication failed")

	// ErrUnauthenticated is returned for device commands that require a
	// session token when none is held.
	ErrUnauthenticated = errors.New("camera is not authenticated")

	// ErrSourceExhausted is returned by a Source whose content ended
	// without loop-back. The acquisition loop exits cleanly on it.
	ErrSourceExhausted = errors.New("frame source exhausted")
)

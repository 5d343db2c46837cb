package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avstage/broadcastd/internal/logging"
	"github.com/avstage/broadcastd/internal/metrics"
)

// KindIP is the registry tag for network cameras controlled over the
// HTTP device API with frames pulled from a stream URL.
const KindIP = "ip"

const ptzRequestTimeout = 5 * time.Second

// IPCamera is a network camera: token-authenticated PTZ control plus a
// live stream frame source. The video path and the control path hold
// separate credentials, so frame acquisition runs even when
// authentication failed and the camera is merely degraded.
type IPCamera struct {
	acquisition

	address   string
	streamURL string
	device    *deviceClient
	auth      *Authenticator
	src       Source

	tokenMu sync.RWMutex
	token   string
}

// RegisterIPCamera registers the "ip" kind. The opener supplies the frame
// decode path for stream URLs; without one the camera runs control-only,
// PTZ works but Frame always returns nil.
func RegisterIPCamera(r *Registry, opener StreamOpener) {
	r.Register(KindIP, func(id int, cfg Config) (Camera, error) {
		return NewIPCamera(id, cfg, opener)
	})
}

// NewIPCamera validates configuration, opens the stream source when an
// opener is available and builds the handle. Required params: address,
// username, password, stream_url. Optional: auth_retries, auth_delay_ms.
func NewIPCamera(id int, cfg Config, opener StreamOpener) (*IPCamera, error) {
	address, err := cfg.Params.Require("address")
	if err != nil {
		return nil, err
	}
	username, err := cfg.Params.Require("username")
	if err != nil {
		return nil, err
	}
	password, err := cfg.Params.Require("password")
	if err != nil {
		return nil, err
	}
	streamURL, err := cfg.Params.Require("stream_url")
	if err != nil {
		return nil, err
	}

	var src Source
	if opener != nil {
		src, err = opener(streamURL)
		if err != nil {
			return nil, fmt.Errorf("open stream for camera %d: %w", id, err)
		}
	}

	logger := logging.GetLogger("camera")
	device := newDeviceClient(address, defaultAuthTimeout)

	cam := &IPCamera{
		acquisition: newAcquisition(id, logger),
		address:     address,
		streamURL:   streamURL,
		device:      device,
		src:         src,
		auth: NewAuthenticator(
			id, device, username, password,
			cfg.Params.Int("auth_retries", defaultAuthRetries),
			time.Duration(cfg.Params.Int("auth_delay_ms", 0))*time.Millisecond,
			logger,
		),
	}
	return cam, nil
}

// ID implements Camera.
func (c *IPCamera) ID() int { return c.cameraID }

// Kind implements Camera.
func (c *IPCamera) Kind() string { return KindIP }

// Frame implements Camera.
func (c *IPCamera) Frame() *Frame { return c.latest() }

// Start authenticates against the control endpoint and spawns the frame
// acquisition loop. Auth failure degrades the camera (PTZ becomes a
// no-op) but does not stop frame acquisition.
func (c *IPCamera) Start() error {
	if c.isRunning() {
		c.logger.Warn("Camera is already running", "camera_id", c.cameraID)
		return nil
	}

	token, err := c.auth.Authenticate(context.Background())
	if err == nil {
		c.setToken(token)
	}

	if c.src != nil {
		c.start(c.src)
	}
	return nil
}

// Stop implements Camera. Idempotent, bounded by the acquisition grace period.
func (c *IPCamera) Stop() {
	if c.src != nil {
		c.halt(c.src)
	}
}

// Connected reports whether a valid session token is held.
func (c *IPCamera) Connected() bool {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.token != ""
}

// SendPTZ sends one PtzCtrl operation to the device. The operation is
// validated before any network I/O; an unauthenticated camera rejects the
// command without a device call.
func (c *IPCamera) SendPTZ(command, op string, marker int) error {
	if command != CmdPtzCtrl {
		c.logger.Warn("Unsupported camera command", "camera_id", c.cameraID, "command", command)
		return fmt.Errorf("%w: command %q", ErrInvalidPTZOp, command)
	}
	if !ValidPTZOp(op) {
		c.logger.Warn("Invalid PTZ operation", "camera_id", c.cameraID, "op", op)
		return fmt.Errorf("%w: %q", ErrInvalidPTZOp, op)
	}

	c.tokenMu.RLock()
	token := c.token
	c.tokenMu.RUnlock()
	if token == "" {
		c.logger.Warn("Dropping PTZ command, camera unauthenticated", "camera_id", c.cameraID, "op", op)
		return ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(context.Background(), ptzRequestTimeout)
	defer cancel()

	if err := c.device.ptzCtrl(ctx, token, op, marker, DefaultPTZSpeed); err != nil {
		c.logger.Error("PTZ command failed", "camera_id", c.cameraID, "op", op, "error", err)
		return err
	}
	metrics.PTZMove(c.cameraID, op)
	return nil
}

// Info implements Camera.
func (c *IPCamera) Info() Info {
	info := Info{
		ID:        c.cameraID,
		Kind:      KindIP,
		Running:   c.isRunning(),
		Connected: c.Connected(),
		Detail:    c.address,
	}
	if f := c.latest(); f != nil {
		info.FrameSeq = f.Seq
		info.FrameTime = f.Taken
	}
	return info
}

func (c *IPCamera) setToken(token string) {
	c.tokenMu.Lock()
	c.token = token
	c.tokenMu.Unlock()
}

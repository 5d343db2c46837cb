package camera

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync/atomic"
	"time"

	"github.com/avstage/broadcastd/internal/logging"
)

// KindMock is the registry tag for hardware-free cameras used in
// development and tests. Supported sources: "generated" (synthetic frames
// with a cycling hue) and "image" (a still picture replayed at the
// configured rate).
const KindMock = "mock"

const (
	defaultMockFPS    = 30
	defaultMockWidth  = 640
	defaultMockHeight = 480
)

// MockCamera replays a synthetic or still source at a declared frame rate.
// PTZ commands are validated and logged but touch no hardware.
type MockCamera struct {
	acquisition

	source string
	src    Source
	closed atomic.Bool
}

// RegisterMockCamera registers the "mock" kind.
func RegisterMockCamera(r *Registry) {
	r.Register(KindMock, func(id int, cfg Config) (Camera, error) {
		return NewMockCamera(id, cfg)
	})
}

// NewMockCamera builds a mock camera. Params: source (generated|image),
// fps, width, height, loop, image_path (for the image source).
func NewMockCamera(id int, cfg Config) (*MockCamera, error) {
	logger := logging.GetLogger("camera")

	source := cfg.Params.String("source", "generated")
	fps := cfg.Params.Int("fps", defaultMockFPS)
	if fps <= 0 {
		fps = defaultMockFPS
	}
	interval := time.Second / time.Duration(fps)

	cam := &MockCamera{
		acquisition: newAcquisition(id, logger),
		source:      source,
	}

	switch source {
	case "generated":
		cam.src = &generatedSource{
			width:    cfg.Params.Int("width", defaultMockWidth),
			height:   cfg.Params.Int("height", defaultMockHeight),
			interval: interval,
			closed:   &cam.closed,
		}
	case "image":
		path, err := cfg.Params.Require("image_path")
		if err != nil {
			return nil, err
		}
		frame, err := loadImageFrame(path)
		if err != nil {
			return nil, fmt.Errorf("mock camera %d: %w", id, err)
		}
		cam.src = &imageSource{
			frame:    frame,
			loop:     cfg.Params.Bool("loop", true),
			interval: interval,
			closed:   &cam.closed,
		}
	default:
		return nil, fmt.Errorf("unknown mock camera source: %q", source)
	}

	return cam, nil
}

// ID implements Camera.
func (c *MockCamera) ID() int { return c.cameraID }

// Kind implements Camera.
func (c *MockCamera) Kind() string { return KindMock }

// Frame implements Camera.
func (c *MockCamera) Frame() *Frame { return c.latest() }

// Start implements Camera.
func (c *MockCamera) Start() error {
	c.start(c.src)
	return nil
}

// Stop implements Camera.
func (c *MockCamera) Stop() {
	c.halt(c.src)
}

// Connected reports source availability: generated content is always
// connected, a file-backed source is connected until closed.
func (c *MockCamera) Connected() bool {
	if c.source == "generated" {
		return true
	}
	return !c.closed.Load()
}

// SendPTZ validates the command like a real camera would, then only logs it.
func (c *MockCamera) SendPTZ(command, op string, marker int) error {
	if command != CmdPtzCtrl {
		return fmt.Errorf("%w: command %q", ErrInvalidPTZOp, command)
	}
	if !ValidPTZOp(op) {
		c.logger.Warn("Invalid PTZ operation", "camera_id", c.cameraID, "op", op)
		return fmt.Errorf("%w: %q", ErrInvalidPTZOp, op)
	}
	c.logger.Info("Mock PTZ command", "camera_id", c.cameraID, "op", op, "marker", marker)
	return nil
}

// Info implements Camera.
func (c *MockCamera) Info() Info {
	info := Info{
		ID:        c.cameraID,
		Kind:      KindMock,
		Running:   c.isRunning(),
		Connected: c.Connected(),
		Detail:    c.source,
	}
	if f := c.latest(); f != nil {
		info.FrameSeq = f.Seq
		info.FrameTime = f.Taken
	}
	return info
}

// generatedSource synthesizes frames with a hue that advances every frame,
// so consumers can see motion without any hardware attached.
type generatedSource struct {
	width    int
	height   int
	interval time.Duration
	count    uint64
	closed   *atomic.Bool
}

func (s *generatedSource) Next() (*Frame, error) {
	if s.closed.Load() {
		return nil, ErrSourceExhausted
	}

	hue := float64((s.count * 2) % 180)
	b, g, r := hueToBGR(hue)
	s.count++

	pix := make([]byte, s.width*s.height*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i] = b
		pix[i+1] = g
		pix[i+2] = r
	}
	return &Frame{Width: s.width, Height: s.height, Pix: pix, Taken: time.Now()}, nil
}

func (s *generatedSource) Interval() time.Duration { return s.interval }

func (s *generatedSource) Close() error {
	s.closed.Store(true)
	return nil
}

// imageSource replays a still frame. With loop off the source is
// exhausted after the first frame, which ends acquisition cleanly.
type imageSource struct {
	frame    *Frame
	loop     bool
	interval time.Duration
	served   bool
	closed   *atomic.Bool
}

func (s *imageSource) Next() (*Frame, error) {
	if s.closed.Load() {
		return nil, ErrSourceExhausted
	}
	if s.served && !s.loop {
		return nil, ErrSourceExhausted
	}
	s.served = true

	// Fresh Frame per pull; the backing pixel slice is shared but never
	// written after decode.
	return &Frame{
		Width:  s.frame.Width,
		Height: s.frame.Height,
		Pix:    s.frame.Pix,
		Taken:  time.Now(),
	}, nil
}

func (s *imageSource) Interval() time.Duration { return s.interval }

func (s *imageSource) Close() error {
	s.closed.Store(true)
	return nil
}

// LoadImage decodes a JPEG or PNG file into a BGR frame. Besides the
// image mock source it also loads the display background.
func LoadImage(path string) (*Frame, error) {
	return loadImageFrame(path)
}

// loadImageFrame decodes a JPEG or PNG file into a BGR frame.
func loadImageFrame(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]byte, width*height*3)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pix[i] = byte(b >> 8)
			pix[i+1] = byte(g >> 8)
			pix[i+2] = byte(r >> 8)
			i += 3
		}
	}
	return &Frame{Width: width, Height: height, Pix: pix}, nil
}

// hueToBGR converts an OpenCV-style hue (0..180) at full saturation and
// fixed value into BGR bytes.
func hueToBGR(hue float64) (b, g, r byte) {
	const value = 200.0
	h := hue / 30.0 // sector 0..5
	sector := int(h) % 6
	f := h - float64(int(h))

	p := 0.0
	q := value * (1 - f)
	t := value * f

	var rf, gf, bf float64
	switch sector {
	case 0:
		rf, gf, bf = value, t, p
	case 1:
		rf, gf, bf = q, value, p
	case 2:
		rf, gf, bf = p, value, t
	case 3:
		rf, gf, bf = p, q, value
	case 4:
		rf, gf, bf = t, p, value
	default:
		rf, gf, bf = value, p, q
	}
	return byte(bf), byte(gf), byte(rf)
}

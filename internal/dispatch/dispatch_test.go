package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avstage/broadcastd/internal/camera"
	"github.com/avstage/broadcastd/internal/compose"
	"github.com/avstage/broadcastd/internal/events"
	"github.com/avstage/broadcastd/internal/schedule"
)

// fakeCam records PTZ calls in order.
type fakeCam struct {
	id    int
	mu    sync.Mutex
	calls []string
	frame *camera.Frame
}

func (c *fakeCam) ID() int              { return c.id }
func (c *fakeCam) Kind() string         { return "fake" }
func (c *fakeCam) Frame() *camera.Frame { return c.frame }
func (c *fakeCam) Start() error         { return nil }
func (c *fakeCam) Stop()                {}
func (c *fakeCam) Connected() bool      { return true }
func (c *fakeCam) Info() camera.Info    { return camera.Info{ID: c.id, Kind: "fake"} }

func (c *fakeCam) SendPTZ(command, op string, marker int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, op)
	return nil
}

func (c *fakeCam) ops() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type fakeLookup map[int]camera.Camera

func (l fakeLookup) Get(id int) (camera.Camera, bool) {
	c, ok := l[id]
	return c, ok
}

// fakePlayer sleeps for the requested duration and records what played.
type fakePlayer struct {
	mu     sync.Mutex
	played []string
	err    error
}

func (p *fakePlayer) play(file string, d time.Duration) error {
	p.mu.Lock()
	p.played = append(p.played, file)
	p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	time.Sleep(d)
	return nil
}

func (p *fakePlayer) PlayAudio(_ context.Context, file string, d time.Duration) error {
	return p.play(file, d)
}

func (p *fakePlayer) PlayVideo(_ context.Context, file string, d time.Duration) error {
	return p.play(file, d)
}

func moveAction(cam int, op string, d time.Duration) schedule.Action {
	return schedule.Action{Kind: schedule.KindCameraMove, Camera: cam, Op: op, Duration: d}
}

func testModeBook() *compose.ModeBook {
	return &compose.ModeBook{
		Modes: map[string]compose.Mode{
			"fullscreen_0": {Name: "fullscreen_0", Regions: []compose.Region{{CameraID: 1, Scale: 100}}},
		},
	}
}

func TestMoveQueueDrainsFIFO(t *testing.T) {
	cam := &fakeCam{id: 1}
	q := NewMoveQueue()
	for _, op := range []string{camera.OpLeft, camera.OpRight, camera.OpZoomIn} {
		q.Push(moveAction(1, op, time.Millisecond))
	}

	d := New(Config{Cameras: fakeLookup{1: cam}, Modes: testModeBook(), Player: &fakePlayer{}})
	q.Drain(context.Background(), d.cams, nil, d.logger)

	want := []string{
		camera.OpLeft, camera.OpStop,
		camera.OpRight, camera.OpStop,
		camera.OpZoomIn, camera.OpStop,
	}
	got := cam.ops()
	if len(got) != len(want) {
		t.Fatalf("got %d PTZ calls %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
	if q.Len() != 0 {
		t.Errorf("queue not empty after drain: %d left", q.Len())
	}
}

func TestMoveQueueUnknownCameraSkipped(t *testing.T) {
	cam := &fakeCam{id: 1}
	q := NewMoveQueue()
	q.Push(moveAction(9, camera.OpLeft, time.Millisecond))
	q.Push(moveAction(1, camera.OpRight, time.Millisecond))

	d := New(Config{Cameras: fakeLookup{1: cam}, Modes: testModeBook(), Player: &fakePlayer{}})
	q.Drain(context.Background(), d.cams, nil, d.logger)

	got := cam.ops()
	if len(got) != 2 || got[0] != camera.OpRight || got[1] != camera.OpStop {
		t.Errorf("got PTZ calls %v, want [Right Stop]", got)
	}
}

func TestMediaInsertsRunConcurrently(t *testing.T) {
	player := &fakePlayer{}
	d := New(Config{Cameras: fakeLookup{}, Modes: testModeBook(), Player: player})

	ev := schedule.Event{
		Name: "aarti",
		Actions: []schedule.Action{
			{Kind: schedule.KindPlayAudio, File: "bell.mp3", Duration: 40 * time.Millisecond},
			{Kind: schedule.KindPlayVideo, File: "intro.mp4", Duration: 100 * time.Millisecond},
		},
	}

	started := time.Now()
	d.Dispatch(context.Background(), "morning", ev)
	elapsed := time.Since(started)

	if elapsed < 100*time.Millisecond {
		t.Errorf("dispatch finished in %v, before the longer insert", elapsed)
	}
	if elapsed > 300*time.Millisecond {
		t.Errorf("dispatch took %v, inserts appear to have run sequentially", elapsed)
	}
	if len(player.played) != 2 {
		t.Errorf("played %v, want both inserts", player.played)
	}
}

func TestModeRunsConcurrentlyWithMoveDrain(t *testing.T) {
	cam := &fakeCam{id: 1, frame: &camera.Frame{Width: 4, Height: 4, Pix: make([]byte, 48)}}
	d := New(Config{
		Cameras: fakeLookup{1: cam},
		Modes:   testModeBook(),
		Player:  &fakePlayer{},
		Cadence: 10 * time.Millisecond,
	})

	ev := schedule.Event{
		Name: "darshan",
		Actions: []schedule.Action{
			{Kind: schedule.KindDisplayMode, Mode: "fullscreen_0", Duration: 120 * time.Millisecond},
			moveAction(1, camera.OpLeft, 30*time.Millisecond),
		},
	}

	started := time.Now()
	d.Dispatch(context.Background(), "morning", ev)
	elapsed := time.Since(started)

	// The move (30ms) fits inside the mode window (120ms), so the event
	// should take about the mode duration, not the sum.
	if elapsed < 120*time.Millisecond || elapsed > 350*time.Millisecond {
		t.Errorf("dispatch took %v, want about the mode duration", elapsed)
	}
	got := cam.ops()
	if len(got) != 2 || got[0] != camera.OpLeft || got[1] != camera.OpStop {
		t.Errorf("got PTZ calls %v, want [Left Stop]", got)
	}
}

func TestUnknownModeSkipped(t *testing.T) {
	bus := events.New()
	var mu sync.Mutex
	var failures []events.ActionFailedEvent
	unsubscribe := bus.Subscribe(func(ev events.ActionFailedEvent) {
		mu.Lock()
		failures = append(failures, ev)
		mu.Unlock()
	})
	defer unsubscribe()

	d := New(Config{Cameras: fakeLookup{}, Modes: testModeBook(), Player: &fakePlayer{}, Bus: bus})
	ev := schedule.Event{
		Name: "broken",
		Actions: []schedule.Action{
			{Kind: schedule.KindDisplayMode, Mode: "no_such_mode", Duration: time.Second},
		},
	}

	started := time.Now()
	d.Dispatch(context.Background(), "morning", ev)
	if elapsed := time.Since(started); elapsed > 200*time.Millisecond {
		t.Errorf("unknown mode still ran its duration: %v", elapsed)
	}

	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(failures)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no ActionFailedEvent published for unknown mode")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestFailingInsertDoesNotAbortEvent(t *testing.T) {
	cam := &fakeCam{id: 1}
	player := &fakePlayer{err: errors.New("no such file")}
	d := New(Config{Cameras: fakeLookup{1: cam}, Modes: testModeBook(), Player: player})

	ev := schedule.Event{
		Name: "degraded",
		Actions: []schedule.Action{
			{Kind: schedule.KindPlayAudio, File: "missing.mp3", Duration: time.Millisecond},
			moveAction(1, camera.OpUp, time.Millisecond),
		},
	}
	d.Dispatch(context.Background(), "morning", ev)

	got := cam.ops()
	if len(got) != 2 || got[0] != camera.OpUp {
		t.Errorf("camera move skipped after insert failure: calls %v", got)
	}
}

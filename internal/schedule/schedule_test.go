package schedule

import (
	"strings"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatal(err)
	}
	return tod
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:30", 390, false},
		{"23:59", 1439, false},
		{"9:05", 545, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEventWindowIsHalfOpen(t *testing.T) {
	ev := Event{Start: mustTime(t, "12:00"), End: mustTime(t, "12:15")}

	tests := []struct {
		at   string
		want bool
	}{
		{"11:59", false},
		{"12:00", true},
		{"12:05", true},
		{"12:14", true},
		{"12:15", false},
	}
	for _, tt := range tests {
		if got := ev.Contains(mustTime(t, tt.at)); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestParseSchedule(t *testing.T) {
	data := []byte(`
programmes:
  - name: morning
    events:
      - name: opening
        start_time: "06:30"
        end_time: "07:00"
        actions:
          - action: play_audio
            file: bell.mp3
            duration: 30
          - action: video_mode
            mode: fullscreen_0
            duration: 600
          - action: camera_move
            camera: 1
            type: ToPos
            marker: 3
            speed: 20
            duration: 2.5
`)
	sched, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(sched.Programmes) != 1 {
		t.Fatalf("programmes = %d, want 1", len(sched.Programmes))
	}
	ev := sched.Programmes[0].Events[0]
	if ev.Start != mustTime(t, "06:30") || ev.End != mustTime(t, "07:00") {
		t.Errorf("window = %s-%s", ev.Start, ev.End)
	}
	if len(ev.Actions) != 3 {
		t.Fatalf("actions = %d, want 3", len(ev.Actions))
	}

	audio := ev.Actions[0]
	if audio.Kind != KindPlayAudio || audio.File != "bell.mp3" || audio.Duration != 30*time.Second {
		t.Errorf("audio action = %+v", audio)
	}
	mode := ev.Actions[1]
	if mode.Kind != KindDisplayMode || mode.Mode != "fullscreen_0" {
		t.Errorf("mode action = %+v", mode)
	}
	move := ev.Actions[2]
	if move.Kind != KindCameraMove || move.Camera != 1 || move.Op != "ToPos" ||
		move.Marker != 3 || move.Speed != 20 || move.Duration != 2500*time.Millisecond {
		t.Errorf("move action = %+v", move)
	}
}

func TestParseScheduleRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			"unknown action kind",
			`
programmes:
  - name: p
    events:
      - name: e
        start_time: "10:00"
        end_time: "11:00"
        actions:
          - action: teleport
            duration: 1
`,
			"unknown action kind",
		},
		{
			"inverted window",
			`
programmes:
  - name: p
    events:
      - name: e
        start_time: "11:00"
        end_time: "10:00"
        actions: []
`,
			"empty or inverted",
		},
		{
			"insert without file",
			`
programmes:
  - name: p
    events:
      - name: e
        start_time: "10:00"
        end_time: "11:00"
        actions:
          - action: play_video
            duration: 5
`,
			"requires a file",
		},
		{
			"move without motion type",
			`
programmes:
  - name: p
    events:
      - name: e
        start_time: "10:00"
        end_time: "11:00"
        actions:
          - action: camera_move
            camera: 0
            duration: 1
`,
			"requires a motion type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse accepted bad input")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindPlayAudio, KindPlayVideo, KindDisplayMode, KindCameraMove} {
		parsed, err := ParseKind(kind.String())
		if err != nil {
			t.Errorf("ParseKind(%s): %v", kind, err)
		}
		if parsed != kind {
			t.Errorf("round trip %s = %s", kind, parsed)
		}
	}
}

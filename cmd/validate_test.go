package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validCameras = `
cameras:
  - id: 0
    kind: mock
    params:
      source: generated
  - id: 1
    kind: mock
    params:
      source: generated
`

const validModes = `
modes:
  fullscreen_0:
    type: full_screen
    cam: 0
    pos: [0, 0]
    scale: 100
`

func writeFiles(t *testing.T, cameras, sched, modes string) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	camerasFile := filepath.Join(dir, "cameras.yaml")
	scheduleFile := filepath.Join(dir, "schedule.yaml")
	modesFile := filepath.Join(dir, "modes.yaml")
	for path, content := range map[string]string{
		camerasFile:  cameras,
		scheduleFile: sched,
		modesFile:    modes,
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return camerasFile, scheduleFile, modesFile
}

func TestValidateCleanConfiguration(t *testing.T) {
	sched := `
programmes:
  - name: morning
    events:
      - name: opening
        start_time: "06:30"
        end_time: "07:00"
        actions:
          - action: video_mode
            mode: fullscreen_0
            duration: 60
          - action: camera_move
            camera: 1
            type: Left
            duration: 2
`
	cameras, schedule, modes := writeFiles(t, validCameras, sched, validModes)
	problems := validateFiles(cameras, schedule, modes)
	if len(problems) != 0 {
		t.Errorf("clean configuration reported problems: %v", problems)
	}
}

func TestValidateCatchesDanglingReferences(t *testing.T) {
	sched := `
programmes:
  - name: morning
    events:
      - name: opening
        start_time: "06:30"
        end_time: "07:00"
        actions:
          - action: video_mode
            mode: no_such_mode
            duration: 60
          - action: camera_move
            camera: 7
            type: Left
            duration: 2
`
	cameras, schedule, modes := writeFiles(t, validCameras, sched, validModes)
	problems := validateFiles(cameras, schedule, modes)
	if len(problems) != 2 {
		t.Fatalf("got %d problems %v, want 2", len(problems), problems)
	}
	joined := strings.Join(problems, "\n")
	if !strings.Contains(joined, "no_such_mode") {
		t.Errorf("missing mode problem not reported: %v", problems)
	}
	if !strings.Contains(joined, "camera 7") {
		t.Errorf("unknown camera problem not reported: %v", problems)
	}
}

func TestValidateCatchesModeWithUnknownCamera(t *testing.T) {
	modes := `
modes:
  fullscreen_9:
    type: full_screen
    cam: 9
    pos: [0, 0]
    scale: 100
`
	sched := `
programmes: []
`
	cameras, schedule, modesFile := writeFiles(t, validCameras, sched, modes)
	problems := validateFiles(cameras, schedule, modesFile)
	if len(problems) != 1 || !strings.Contains(problems[0], "camera 9") {
		t.Errorf("got problems %v, want one unknown-camera report", problems)
	}
}

func TestValidateUnparsableRosterReportsOnlyParseError(t *testing.T) {
	sched := `
programmes:
  - name: morning
    events:
      - name: opening
        start_time: "06:30"
        end_time: "07:00"
        actions:
          - action: video_mode
            mode: fullscreen_0
            duration: 60
          - action: camera_move
            camera: 1
            type: Left
            duration: 2
`
	cameras, schedule, modes := writeFiles(t, "cameras: [broken", sched, validModes)
	problems := validateFiles(cameras, schedule, modes)
	if len(problems) != 1 {
		t.Fatalf("got %d problems %v, want only the roster parse error", len(problems), problems)
	}
	if !strings.Contains(problems[0], "cameras:") {
		t.Errorf("problem %q does not name the roster file", problems[0])
	}
}

func TestValidateUnparsableSchedule(t *testing.T) {
	cameras, schedule, modes := writeFiles(t, validCameras, "programmes: [broken", validModes)
	problems := validateFiles(cameras, schedule, modes)
	if len(problems) == 0 {
		t.Fatal("broken schedule not reported")
	}
}

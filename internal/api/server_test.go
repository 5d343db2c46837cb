package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avstage/broadcastd/internal/camera"
	"github.com/avstage/broadcastd/internal/compose"
	"github.com/avstage/broadcastd/internal/logging"
	"github.com/avstage/broadcastd/internal/schedule"
)

type staticSchedule struct {
	sched *schedule.Schedule
}

func (s staticSchedule) Snapshot() *schedule.Schedule { return s.sched }

func testRoster(t *testing.T) *camera.Roster {
	t.Helper()
	reg := camera.NewRegistry()
	camera.RegisterMockCamera(reg)
	configs := []camera.Config{
		{ID: 0, Kind: camera.KindMock, Params: camera.Params{"source": "generated", "width": 32, "height": 24}},
		{ID: 1, Kind: camera.KindMock, Params: camera.Params{"source": "generated"}},
	}
	return camera.BuildRoster(reg, configs, logging.GetLogger("test"))
}

func testServer(t *testing.T, opts *Options) *httptest.Server {
	t.Helper()
	if opts.Roster == nil {
		opts.Roster = testRoster(t)
	}
	srv := NewServer(opts)
	ts := httptest.NewServer(srv.GetMux())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t, &Options{})

	var body struct {
		Status  string `json:"status"`
		Cameras int    `json:"cameras"`
	}
	if status := getJSON(t, ts.URL+"/healthz", &body); status != http.StatusOK {
		t.Fatalf("healthz status = %d", status)
	}
	if body.Status != "ok" || body.Cameras != 2 {
		t.Errorf("healthz = %+v, want ok with 2 cameras", body)
	}
}

func TestCORSPreflightIsReadOnly(t *testing.T) {
	ts := testServer(t, &Options{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/cameras", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", resp.StatusCode)
	}
	methods := resp.Header.Get("Access-Control-Allow-Methods")
	if methods != "GET, OPTIONS" {
		t.Errorf("allowed methods = %q, want GET, OPTIONS only", methods)
	}
	if origin := resp.Header.Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("allowed origin = %q, want *", origin)
	}
}

func TestCameraEndpoints(t *testing.T) {
	ts := testServer(t, &Options{})

	var list struct {
		Cameras []camera.Info `json:"cameras"`
	}
	if status := getJSON(t, ts.URL+"/api/cameras", &list); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(list.Cameras) != 2 {
		t.Fatalf("got %d cameras, want 2", len(list.Cameras))
	}

	var one camera.Info
	if status := getJSON(t, ts.URL+"/api/cameras/1", &one); status != http.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	if one.ID != 1 || one.Kind != camera.KindMock {
		t.Errorf("camera 1 = %+v", one)
	}

	if status := getJSON(t, ts.URL+"/api/cameras/42", nil); status != http.StatusNotFound {
		t.Errorf("unknown camera status = %d, want 404", status)
	}
}

func TestScheduleEndpoint(t *testing.T) {
	start, _ := schedule.ParseTimeOfDay("06:30")
	end, _ := schedule.ParseTimeOfDay("07:00")
	sched := &schedule.Schedule{
		Programmes: []schedule.Programme{{
			Name: "morning",
			Events: []schedule.Event{{
				Name:  "opening",
				Start: start,
				End:   end,
				Actions: []schedule.Action{
					{Kind: schedule.KindDisplayMode, Mode: "fullscreen_0"},
				},
			}},
		}},
	}
	ts := testServer(t, &Options{Schedule: staticSchedule{sched}})

	var body struct {
		Programmes []struct {
			Name   string `json:"name"`
			Events []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"events"`
		} `json:"programmes"`
	}
	if status := getJSON(t, ts.URL+"/api/schedule", &body); status != http.StatusOK {
		t.Fatalf("schedule status = %d", status)
	}
	if len(body.Programmes) != 1 || body.Programmes[0].Name != "morning" {
		t.Fatalf("programmes = %+v", body.Programmes)
	}
	ev := body.Programmes[0].Events[0]
	if ev.Start != "06:30" || ev.End != "07:00" {
		t.Errorf("event window = %s-%s, want 06:30-07:00", ev.Start, ev.End)
	}
}

func TestModesEndpoint(t *testing.T) {
	modes := &compose.ModeBook{
		Background: "bg.jpg",
		Modes: map[string]compose.Mode{
			"fullscreen_0": {Name: "fullscreen_0", Regions: []compose.Region{{CameraID: 0, Scale: 100}}},
		},
	}
	ts := testServer(t, &Options{Modes: modes})

	var body struct {
		Background string         `json:"background"`
		Modes      []compose.Mode `json:"modes"`
	}
	if status := getJSON(t, ts.URL+"/api/modes", &body); status != http.StatusOK {
		t.Fatalf("modes status = %d", status)
	}
	if body.Background != "bg.jpg" || len(body.Modes) != 1 {
		t.Errorf("modes body = %+v", body)
	}
}

func TestBasicAuthGuardsCameraRoutes(t *testing.T) {
	ts := testServer(t, &Options{AuthUsername: "operator", AuthPassword: "secret"})

	// Health stays open
	if status := getJSON(t, ts.URL+"/healthz", nil); status != http.StatusOK {
		t.Errorf("healthz status = %d, want 200 without auth", status)
	}

	if status := getJSON(t, ts.URL+"/api/cameras", nil); status != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", status)
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/cameras", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("operator:secret")))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", resp.StatusCode)
	}
}

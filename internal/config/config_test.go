package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// daemonOptions mirrors the shape of the main Options struct: a Config
// field naming the TOML file plus tagged settings.
type daemonOptions struct {
	Config string `help:"Config file path"`

	Port         string   `toml:"server.port" env:"SERVER_PORT"`
	ScheduleFile string   `toml:"files.schedule" env:"SCHEDULE_FILE"`
	CamerasFile  string   `toml:"files.cameras" env:"CAMERAS_FILE"`
	DebugPass    bool     `toml:"debug.single_pass" env:"DEBUG_PASS"`
	MoveSpeed    int      `toml:"ptz.speed" env:"MOVE_SPEED"`
	ExtraOrigins []string `toml:"server.cors_origins" env:"EXTRA_ORIGINS"`
}

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "broadcastd.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeTOML(t, `
[server]
port = ":9000"
cors_origins = ["https://ops.example", "https://stage.example"]

[files]
schedule = "festival.yaml"
cameras = "temple-cams.yaml"

[debug]
single_pass = true

[ptz]
speed = 24
`)

	opts := &daemonOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if opts.Port != ":9000" {
		t.Errorf("Port = %q, want :9000", opts.Port)
	}
	if opts.ScheduleFile != "festival.yaml" || opts.CamerasFile != "temple-cams.yaml" {
		t.Errorf("files = %q/%q, want festival.yaml/temple-cams.yaml", opts.ScheduleFile, opts.CamerasFile)
	}
	if !opts.DebugPass {
		t.Error("DebugPass not read from TOML")
	}
	if opts.MoveSpeed != 24 {
		t.Errorf("MoveSpeed = %d, want 24", opts.MoveSpeed)
	}
	wantOrigins := []string{"https://ops.example", "https://stage.example"}
	if !reflect.DeepEqual(opts.ExtraOrigins, wantOrigins) {
		t.Errorf("ExtraOrigins = %v, want %v", opts.ExtraOrigins, wantOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BROADCASTD_SERVER_PORT", ":7070")
	t.Setenv("BROADCASTD_SCHEDULE_FILE", "evening.yaml")
	t.Setenv("BROADCASTD_DEBUG_PASS", "true")
	t.Setenv("BROADCASTD_MOVE_SPEED", "16")
	t.Setenv("BROADCASTD_EXTRA_ORIGINS", " https://a.example , https://b.example ")

	opts := &daemonOptions{}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if opts.Port != ":7070" || opts.ScheduleFile != "evening.yaml" {
		t.Errorf("env values not applied: port=%q schedule=%q", opts.Port, opts.ScheduleFile)
	}
	if !opts.DebugPass || opts.MoveSpeed != 16 {
		t.Errorf("env bool/int not applied: pass=%v speed=%d", opts.DebugPass, opts.MoveSpeed)
	}
	wantOrigins := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(opts.ExtraOrigins, wantOrigins) {
		t.Errorf("ExtraOrigins = %v, want trimmed %v", opts.ExtraOrigins, wantOrigins)
	}
}

func TestLoadConfigEnvOverridesTOML(t *testing.T) {
	path := writeTOML(t, `
[server]
port = ":9000"

[ptz]
speed = 24
`)
	t.Setenv("BROADCASTD_SERVER_PORT", ":7070")

	opts := &daemonOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if opts.Port != ":7070" {
		t.Errorf("Port = %q, env should win over TOML", opts.Port)
	}
	if opts.MoveSpeed != 24 {
		t.Errorf("MoveSpeed = %d, TOML should apply where no env is set", opts.MoveSpeed)
	}
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	opts := &daemonOptions{Config: filepath.Join(t.TempDir(), "absent.toml")}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig with missing file: %v", err)
	}
}

func TestLoadConfigRejectsBrokenTOML(t *testing.T) {
	path := writeTOML(t, "[server\nbroken =")
	opts := &daemonOptions{Config: path}
	if err := LoadConfig(opts, nil); err == nil {
		t.Fatal("unparsable TOML not reported")
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"Port", "port"},
		{"ScheduleFile", "schedule-file"},
		{"LoggingAPI", "logging-a-p-i"},
	}
	for _, tt := range tests {
		if got := fieldNameToFlag(tt.field); got != tt.want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"files": map[string]any{
			"schedule": "schedule.yaml",
			"deep": map[string]any{
				"key": "value",
			},
		},
		"port": ":8090",
	}

	tests := []struct {
		path string
		want any
	}{
		{"port", ":8090"},
		{"files.schedule", "schedule.yaml"},
		{"files.deep.key", "value"},
		{"files.missing", nil},
		{"missing.schedule", nil},
	}
	for _, tt := range tests {
		if got := getNestedValue(data, tt.path); got != tt.want {
			t.Errorf("getNestedValue(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeTOML(t, `
[logging]
level = "warn"
format = "json"
camera = "debug"
dispatch = "error"
`)

	cfg := LoadLoggingConfig(path)
	if cfg.Level != "warn" || cfg.Format != "json" {
		t.Errorf("level/format = %q/%q, want warn/json", cfg.Level, cfg.Format)
	}
	want := map[string]string{"camera": "debug", "dispatch": "error"}
	if !reflect.DeepEqual(cfg.Modules, want) {
		t.Errorf("module overrides = %v, want %v", cfg.Modules, want)
	}
}

func TestLoadLoggingConfigDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.toml")} {
		cfg := LoadLoggingConfig(path)
		if cfg.Level != "info" || cfg.Format != "text" || len(cfg.Modules) != 0 {
			t.Errorf("LoadLoggingConfig(%q) = %+v, want defaults", path, cfg)
		}
	}
}

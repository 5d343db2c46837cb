package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avstage/broadcastd/cmd"
	"github.com/avstage/broadcastd/internal/api"
	"github.com/avstage/broadcastd/internal/camera"
	"github.com/avstage/broadcastd/internal/compose"
	"github.com/avstage/broadcastd/internal/config"
	"github.com/avstage/broadcastd/internal/dispatch"
	"github.com/avstage/broadcastd/internal/events"
	"github.com/avstage/broadcastd/internal/logging"
	"github.com/avstage/broadcastd/internal/media"
	"github.com/avstage/broadcastd/internal/schedule"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"broadcastd.toml"`

	// Server settings
	Port string `help:"API listen address" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Broadcast input files
	CamerasFile  string `help:"Camera roster file" default:"cameras.yaml" toml:"files.cameras" env:"CAMERAS_FILE"`
	ScheduleFile string `help:"Broadcast schedule file" default:"schedule.yaml" toml:"files.schedule" env:"SCHEDULE_FILE"`
	ModesFile    string `help:"Display mode book file" default:"modes.yaml" toml:"files.modes" env:"MODES_FILE"`

	// Debug settings
	DebugTime string `help:"Run exactly one schedule pass at the given HH:MM and exit" default:"" toml:"debug.time" env:"DEBUG_TIME"`

	// Media player settings
	MediaAudioCommand string `help:"Audio insert player command" default:"ffplay -nodisp -autoexit -loglevel error" toml:"media.audio_command" env:"MEDIA_AUDIO_COMMAND"`
	MediaVideoCommand string `help:"Video insert player command" default:"ffplay -fs -autoexit -loglevel error" toml:"media.video_command" env:"MEDIA_VIDEO_COMMAND"`

	// Auth settings
	AuthUsername string `help:"Basic auth username, empty disables auth" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingCamera   string `help:"Camera logging level" default:"info" toml:"logging.camera" env:"LOGGING_CAMERA"`
	LoggingDispatch string `help:"Dispatcher logging level" default:"info" toml:"logging.dispatch" env:"LOGGING_DISPATCH"`
	LoggingSchedule string `help:"Schedule walker logging level" default:"info" toml:"logging.schedule" env:"LOGGING_SCHEDULE"`
	LoggingMedia    string `help:"Media player logging level" default:"info" toml:"logging.media" env:"LOGGING_MEDIA"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"camera":   opts.LoggingCamera,
				"dispatch": opts.LoggingDispatch,
				"schedule": opts.LoggingSchedule,
				"media":    opts.LoggingMedia,
				"api":      opts.LoggingAPI,
			},
		})
		logger := logging.GetLogger("main")

		// The schedule is the one input the daemon cannot run without.
		sched, err := schedule.LoadFile(opts.ScheduleFile)
		if err != nil {
			logger.Error("Failed to load schedule", "path", opts.ScheduleFile, "error", err)
			os.Exit(1)
		}

		rosterConfigs, err := camera.LoadRosterFile(opts.CamerasFile)
		if err != nil {
			logger.Error("Failed to load camera roster", "path", opts.CamerasFile, "error", err)
			os.Exit(1)
		}

		modes, err := compose.LoadModeBook(opts.ModesFile)
		if err != nil {
			logger.Warn("Failed to load mode book, display modes disabled", "path", opts.ModesFile, "error", err)
			modes = &compose.ModeBook{Modes: map[string]compose.Mode{}}
		}

		var background *camera.Frame
		if modes.Background != "" {
			if background, err = camera.LoadImage(modes.Background); err != nil {
				logger.Warn("Failed to load background image", "path", modes.Background, "error", err)
				background = nil
			}
		}

		bus := events.New()

		registry := camera.NewRegistry()
		camera.RegisterBuiltins(registry, nil)
		roster := camera.BuildRoster(registry, rosterConfigs, logging.GetLogger("camera"))

		player := media.NewExecPlayer(media.Config{
			AudioCommand: opts.MediaAudioCommand,
			VideoCommand: opts.MediaVideoCommand,
		})

		sink := &compose.LatestSink{}
		dispatcher := dispatch.New(dispatch.Config{
			Cameras:    roster,
			Modes:      modes,
			Player:     player,
			Bus:        bus,
			Sink:       sink,
			Background: background,
		})

		walker := schedule.NewWalker(sched, dispatcher, bus, logging.GetLogger("schedule"))

		scheduleWatcher := config.NewConfigWatcher(
			opts.ScheduleFile,
			schedule.LoadFile,
			logging.GetLogger("config"),
		)
		scheduleWatcher.OnReload(func(fresh *schedule.Schedule) {
			walker.Reload(fresh)
		})

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Roster:            roster,
			Schedule:          walker,
			Modes:             modes,
			PrometheusHandler: promhttp.Handler(),
		})

		walkerCtx, stopWalker := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			roster.StartAll()

			if opts.DebugTime != "" {
				at, parseErr := schedule.ParseTimeOfDay(opts.DebugTime)
				if parseErr != nil {
					logger.Error("Invalid debug time", "value", opts.DebugTime, "error", parseErr)
					roster.StopAll()
					os.Exit(1)
				}
				logger.Info("Debug pass", "at", at.String())
				walker.RunOnce(walkerCtx, at)
				roster.StopAll()
				os.Exit(0)
			}

			if watchErr := scheduleWatcher.Start(); watchErr != nil {
				logger.Warn("Schedule hot reload unavailable", "error", watchErr)
			}

			go func() {
				if runErr := walker.Run(walkerCtx); runErr != nil {
					logger.Error("Schedule walker stopped", "error", runErr)
				}
			}()

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			stopWalker()
			if stopErr := scheduleWatcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping schedule watcher", "error", stopErr)
			}
			roster.StopAll()
		})
	})

	cli.Root().AddCommand(cmd.CreateValidateCmd())

	cli.Run()
}

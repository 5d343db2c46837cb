// Package logging provides structured logging with per-module log level configuration.
//
// The package fronts Go's slog with automatic output routing: logs go to the
// systemd journal when journald is available, to stdout when a terminal, pipe
// or file is connected, and always into an in-memory ring buffer that the
// status API serves back for remote inspection of a headless broadcast node.
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"camera":   "debug",
//			"dispatch": "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("camera")
//	logger.Info("Camera started", "camera_id", 0)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("camera").With("camera_id", id)
//
// When running under systemd:
//
//	journalctl -t broadcastd -f
//	journalctl -t broadcastd MODULE=dispatch
package logging

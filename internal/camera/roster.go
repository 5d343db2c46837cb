package camera

import (
	"log/slog"

	"github.com/samber/lo"
)

// Roster is the concrete set of camera handles built from configuration,
// indexed both by position and by declared identifier.
type Roster struct {
	cameras []Camera
	byID    map[int]Camera
	logger  *slog.Logger
}

// BuildRoster constructs cameras from configuration, best-effort: a camera
// whose construction fails is logged and omitted, and the roster continues
// with the remainder.
func BuildRoster(reg *Registry, configs []Config, logger *slog.Logger) *Roster {
	r := &Roster{
		byID:   make(map[int]Camera, len(configs)),
		logger: logger,
	}

	for _, cfg := range configs {
		cam, err := reg.Create(cfg.Kind, cfg.ID, cfg)
		if err != nil {
			logger.Error("Failed to create camera, skipping", "camera_id", cfg.ID, "kind", cfg.Kind, "error", err)
			continue
		}
		if _, dup := r.byID[cam.ID()]; dup {
			logger.Warn("Duplicate camera id in roster, skipping", "camera_id", cam.ID())
			continue
		}
		r.cameras = append(r.cameras, cam)
		r.byID[cam.ID()] = cam
	}

	logger.Info("Roster built", "cameras", len(r.cameras), "configured", len(configs))
	return r
}

// Get returns the camera with the declared identifier.
func (r *Roster) Get(id int) (Camera, bool) {
	cam, ok := r.byID[id]
	return cam, ok
}

// At returns the camera at the given roster position.
func (r *Roster) At(i int) (Camera, bool) {
	if i < 0 || i >= len(r.cameras) {
		return nil, false
	}
	return r.cameras[i], true
}

// Len returns the number of cameras in the roster.
func (r *Roster) Len() int {
	return len(r.cameras)
}

// IDs returns the declared identifiers in roster order.
func (r *Roster) IDs() []int {
	return lo.Map(r.cameras, func(c Camera, _ int) int { return c.ID() })
}

// Infos returns status snapshots for every camera in roster order.
func (r *Roster) Infos() []Info {
	return lo.Map(r.cameras, func(c Camera, _ int) Info { return c.Info() })
}

// StartAll starts frame acquisition on every camera. Start failures are
// logged and the remaining cameras still start.
func (r *Roster) StartAll() {
	for _, cam := range r.cameras {
		if err := cam.Start(); err != nil {
			r.logger.Error("Failed to start camera", "camera_id", cam.ID(), "error", err)
		}
	}
}

// StopAll stops every camera. Stop is idempotent and bounded per camera.
func (r *Roster) StopAll() {
	for _, cam := range r.cameras {
		cam.Stop()
	}
}

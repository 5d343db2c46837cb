package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/avstage/broadcastd/internal/compose"
	"github.com/avstage/broadcastd/internal/schedule"
)

// Wire views of the schedule model. Time-of-day values are rendered as
// HH:MM, action kinds as their schedule-file tags.
type actionView struct {
	Kind     string `json:"kind" example:"camera_move" doc:"Action kind tag"`
	Duration int    `json:"duration" doc:"Duration in seconds"`
	File     string `json:"file,omitempty" doc:"Media file for inserts"`
	Mode     string `json:"mode,omitempty" doc:"Display mode name"`
	Camera   int    `json:"camera,omitempty" doc:"Roster identifier for moves"`
	Op       string `json:"op,omitempty" doc:"PTZ operation"`
	Marker   int    `json:"marker,omitempty" doc:"Preset marker for ToPos"`
}

type eventView struct {
	Name    string       `json:"name"`
	Start   string       `json:"start" example:"06:30" doc:"Window start, inclusive"`
	End     string       `json:"end" example:"07:00" doc:"Window end, exclusive"`
	Actions []actionView `json:"actions"`
}

type programmeView struct {
	Name   string      `json:"name"`
	Events []eventView `json:"events"`
}

// ScheduleResponse wraps the active schedule.
type ScheduleResponse struct {
	Body struct {
		Programmes []programmeView `json:"programmes"`
	}
}

// ModesResponse wraps the display mode book.
type ModesResponse struct {
	Body struct {
		Background string         `json:"background" doc:"Background image path"`
		Modes      []compose.Mode `json:"modes"`
	}
}

func viewOf(sched *schedule.Schedule) []programmeView {
	if sched == nil {
		return nil
	}
	programmes := make([]programmeView, 0, len(sched.Programmes))
	for _, p := range sched.Programmes {
		pv := programmeView{Name: p.Name, Events: make([]eventView, 0, len(p.Events))}
		for _, e := range p.Events {
			ev := eventView{
				Name:    e.Name,
				Start:   e.Start.String(),
				End:     e.End.String(),
				Actions: make([]actionView, 0, len(e.Actions)),
			}
			for _, a := range e.Actions {
				ev.Actions = append(ev.Actions, actionView{
					Kind:     a.Kind.String(),
					Duration: int(a.Duration.Seconds()),
					File:     a.File,
					Mode:     a.Mode,
					Camera:   a.Camera,
					Op:       a.Op,
					Marker:   a.Marker,
				})
			}
			pv.Events = append(pv.Events, ev)
		}
		programmes = append(programmes, pv)
	}
	return programmes
}

// registerScheduleRoutes registers the schedule and mode book endpoints.
func (s *Server) registerScheduleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-schedule",
		Method:      http.MethodGet,
		Path:        "/api/schedule",
		Summary:     "Get Schedule",
		Description: "Get the currently active broadcast schedule",
		Tags:        []string{"schedule"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*ScheduleResponse, error) {
		resp := &ScheduleResponse{}
		if s.options.Schedule != nil {
			resp.Body.Programmes = viewOf(s.options.Schedule.Snapshot())
		}
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-modes",
		Method:      http.MethodGet,
		Path:        "/api/modes",
		Summary:     "List Display Modes",
		Description: "Get the configured display layouts",
		Tags:        []string{"schedule"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*ModesResponse, error) {
		resp := &ModesResponse{}
		if s.options.Modes != nil {
			resp.Body.Background = s.options.Modes.Background
			names := s.options.Modes.Names()
			sort.Strings(names)
			for _, name := range names {
				if m, ok := s.options.Modes.Get(name); ok {
					resp.Body.Modes = append(resp.Body.Modes, m)
				}
			}
		}
		return resp, nil
	})
}

package schedule

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAML shapes of the schedule file. Durations are declared in seconds.
type scheduleFile struct {
	Programmes []programmeYAML `yaml:"programmes"`
}

type programmeYAML struct {
	Name   string      `yaml:"name"`
	Events []eventYAML `yaml:"events"`
}

type eventYAML struct {
	Name      string       `yaml:"name"`
	StartTime string       `yaml:"start_time"`
	EndTime   string       `yaml:"end_time"`
	Actions   []actionYAML `yaml:"actions"`
}

type actionYAML struct {
	Action   string  `yaml:"action"`
	File     string  `yaml:"file"`
	Mode     string  `yaml:"mode"`
	Camera   int     `yaml:"camera"`
	Type     string  `yaml:"type"`
	Marker   int     `yaml:"marker"`
	Speed    int     `yaml:"speed"`
	Duration float64 `yaml:"duration"`
}

// LoadFile reads and validates a schedule description from a YAML file.
func LoadFile(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML schedule description.
func Parse(data []byte) (*Schedule, error) {
	var file scheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}

	sched := &Schedule{Programmes: make([]Programme, 0, len(file.Programmes))}
	for _, p := range file.Programmes {
		programme := Programme{Name: p.Name, Events: make([]Event, 0, len(p.Events))}
		for _, e := range p.Events {
			event, err := e.toEvent()
			if err != nil {
				return nil, fmt.Errorf("programme %q event %q: %w", p.Name, e.Name, err)
			}
			programme.Events = append(programme.Events, event)
		}
		sched.Programmes = append(sched.Programmes, programme)
	}
	return sched, nil
}

func (e eventYAML) toEvent() (Event, error) {
	start, err := ParseTimeOfDay(e.StartTime)
	if err != nil {
		return Event{}, err
	}
	end, err := ParseTimeOfDay(e.EndTime)
	if err != nil {
		return Event{}, err
	}
	if end <= start {
		return Event{}, fmt.Errorf("window %s-%s is empty or inverted", e.StartTime, e.EndTime)
	}

	event := Event{Name: e.Name, Start: start, End: end, Actions: make([]Action, 0, len(e.Actions))}
	for i, a := range e.Actions {
		action, err := a.toAction()
		if err != nil {
			return Event{}, fmt.Errorf("action %d: %w", i, err)
		}
		event.Actions = append(event.Actions, action)
	}
	return event, nil
}

func (a actionYAML) toAction() (Action, error) {
	kind, err := ParseKind(a.Action)
	if err != nil {
		return Action{}, err
	}

	action := Action{
		Kind:     kind,
		Duration: time.Duration(a.Duration * float64(time.Second)),
	}

	switch kind {
	case KindPlayAudio, KindPlayVideo:
		if a.File == "" {
			return Action{}, fmt.Errorf("%s requires a file", kind)
		}
		action.File = a.File
	case KindDisplayMode:
		if a.Mode == "" {
			return Action{}, fmt.Errorf("video_mode requires a mode name")
		}
		action.Mode = a.Mode
	case KindCameraMove:
		if a.Type == "" {
			return Action{}, fmt.Errorf("camera_move requires a motion type")
		}
		action.Camera = a.Camera
		action.Op = a.Type
		action.Marker = a.Marker
		action.Speed = a.Speed
	}
	return action, nil
}

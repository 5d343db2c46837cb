package compose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModeBook is the loaded display-mode configuration: the background image
// path and every named layout the schedule can reference.
type ModeBook struct {
	Background string
	Modes      map[string]Mode
}

// Get returns the named mode.
func (b *ModeBook) Get(name string) (Mode, bool) {
	m, ok := b.Modes[name]
	return m, ok
}

// Names returns the declared mode names.
func (b *ModeBook) Names() []string {
	names := make([]string, 0, len(b.Modes))
	for name := range b.Modes {
		names = append(names, name)
	}
	return names
}

// YAML shapes of the mode configuration file. The three layout types
// mirror the production screen plans; all collapse into region lists.
type modeBookFile struct {
	BackgroundImage string              `yaml:"background_image"`
	Modes           map[string]modeYAML `yaml:"modes"`
}

type modeYAML struct {
	Type string `yaml:"type"`

	// full_screen
	Cam   int   `yaml:"cam"`
	Pos   []int `yaml:"pos"`
	Scale int   `yaml:"scale"`

	// dual_view
	CamTopLeft       int   `yaml:"cam_top_left"`
	PosTopLeft       []int `yaml:"pos_top_left"`
	ScaleTopLeft     int   `yaml:"scale_top_left"`
	CamBottomRight   int   `yaml:"cam_bottom_right"`
	PosBottomRight   []int `yaml:"pos_bottom_right"`
	ScaleBottomRight int   `yaml:"scale_bottom_right"`

	// left_column_right_main
	CamLeftTop    int   `yaml:"cam_left_top"`
	PosLeftTop    []int `yaml:"pos_left_top"`
	CamLeftBottom int   `yaml:"cam_left_bottom"`
	PosLeftBottom []int `yaml:"pos_left_bottom"`
	CamRight      int   `yaml:"cam_right"`
	PosRight      []int `yaml:"pos_right"`
	ScaleLeft     int   `yaml:"scale_left"`
	ScaleRight    int   `yaml:"scale_right"`
}

// LoadModeBook reads the display-mode configuration from a YAML file.
func LoadModeBook(path string) (*ModeBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mode config: %w", err)
	}

	var file modeBookFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse mode config %s: %w", path, err)
	}

	book := &ModeBook{
		Background: file.BackgroundImage,
		Modes:      make(map[string]Mode, len(file.Modes)),
	}
	for name, m := range file.Modes {
		mode, err := m.toMode(name)
		if err != nil {
			return nil, fmt.Errorf("mode %q: %w", name, err)
		}
		book.Modes[name] = mode
	}
	return book, nil
}

func (m modeYAML) toMode(name string) (Mode, error) {
	switch m.Type {
	case "full_screen":
		return Mode{Name: name, Regions: []Region{
			region(m.Cam, m.Pos, m.Scale),
		}}, nil
	case "dual_view":
		return Mode{Name: name, Regions: []Region{
			region(m.CamTopLeft, m.PosTopLeft, m.ScaleTopLeft),
			region(m.CamBottomRight, m.PosBottomRight, m.ScaleBottomRight),
		}}, nil
	case "left_column_right_main":
		return Mode{Name: name, Regions: []Region{
			region(m.CamLeftTop, m.PosLeftTop, m.ScaleLeft),
			region(m.CamLeftBottom, m.PosLeftBottom, m.ScaleLeft),
			region(m.CamRight, m.PosRight, m.ScaleRight),
		}}, nil
	default:
		return Mode{}, fmt.Errorf("unknown mode type %q", m.Type)
	}
}

func region(cam int, pos []int, scale int) Region {
	r := Region{CameraID: cam, Scale: scale}
	if len(pos) >= 2 {
		r.X, r.Y = pos[0], pos[1]
	}
	return r
}

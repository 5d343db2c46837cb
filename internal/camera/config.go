package camera

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config declares one camera in the roster file. Params carries the
// kind-specific settings as an opaque key-value map; each constructor
// pulls out what it needs and rejects what is missing.
type Config struct {
	ID     int    `yaml:"id"`
	Kind   string `yaml:"kind"`
	Params Params `yaml:"params"`
}

// Params is the kind-specific parameter map from the roster file.
type Params map[string]any

// String returns the string value for key, or def when absent.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Int returns the integer value for key, or def when absent. YAML decodes
// numbers as int, so both int and int64 are accepted.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Bool returns the boolean value for key, or def when absent.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Require returns the string value for key or an error naming the missing
// field, so construction failures identify the exact roster mistake.
func (p Params) Require(key string) (string, error) {
	s := p.String(key, "")
	if s == "" {
		return "", fmt.Errorf("missing required camera parameter %q", key)
	}
	return s, nil
}

// rosterFile is the YAML shape of the roster description.
type rosterFile struct {
	Cameras []Config `yaml:"cameras"`
}

// LoadRosterFile reads a camera roster description from a YAML file.
func LoadRosterFile(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}
	return file.Cameras, nil
}

package config

import (
	"math"
	"sort"

	"github.com/san-kum/diffdrive/internal/pose"
)

type preset struct {
	description string
	apply       func(*Config)
}

var presets = map[string]preset{
	"straight": {"goal 2m straight ahead", func(c *Config) {
		c.Goal = pose.New(2, 0, 0)
	}},
	"behind": {"goal 1m behind, reversing allowed", func(c *Config) {
		c.Goal = pose.New(-1, 0, 0)
	}},
	"behind_forward_only": {"goal 1m behind, turning around", func(c *Config) {
		c.Goal = pose.New(-1, 0, 0)
		c.Controller.ForwardMovementOnly = true
	}},
	"rotate": {"turn in place to face backwards", func(c *Config) {
		c.Goal = pose.New(0, 0, math.Pi)
	}},
	"sideways": {"goal 1m to the left facing forward", func(c *Config) {
		c.Goal = pose.New(0, 1, 0)
		c.Duration = 30
	}},
	"limited": {"offset goal with speed and acceleration limits", func(c *Config) {
		c.Goal = pose.New(2, 1, math.Pi/2)
		c.Controller.MaxLinearSpeed = 0.5
		c.Controller.MaxAngularSpeed = 1.5
		c.Controller.MaxLinearAcceleration = 1
		c.Controller.Limit = true
		c.Duration = 40
	}},
	"wheels": {"differential drive with saturating wheels", func(c *Config) {
		c.Model = "diffdrive"
		c.Goal = pose.New(1.5, -1, -math.Pi/2)
		c.Wheels.MaxSpeed = 10
		c.Duration = 40
	}},
}

// GetPreset returns the default configuration with the named preset
// applied, or nil if no such preset exists.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.apply(cfg)
	return cfg
}

// Describe returns a one-line description of the named preset.
func Describe(name string) string {
	return presets[name].description
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

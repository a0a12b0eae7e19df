// Package config holds the YAML run configuration and named presets.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/models"
	"github.com/san-kum/diffdrive/internal/pose"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 20.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Model      string           `yaml:"model" json:"model"`
	Integrator string           `yaml:"integrator" json:"integrator"`
	Dt         float64          `yaml:"dt" json:"dt"`
	Duration   float64          `yaml:"duration" json:"duration"`
	Seed       int64            `yaml:"seed,omitempty" json:"seed,omitempty"` // Monte Carlo start perturbation, 0 = clock
	Start      pose.Pose        `yaml:"start" json:"start"`
	Goal       pose.Pose        `yaml:"goal" json:"goal"`
	Controller ControllerConfig `yaml:"controller" json:"controller"`
	Wheels     WheelConfig      `yaml:"wheels" json:"wheels"`
	StopAtGoal bool             `yaml:"stop_at_goal" json:"stop_at_goal"`
}

// ControllerConfig selects the controller type and carries its parameters.
// Type is "goal" or "none"; Limit routes goal commands through a Limiter.
type ControllerConfig struct {
	Type  string `yaml:"type" json:"type"`
	Limit bool   `yaml:"limit" json:"limit"`

	control.Params `yaml:",inline"`
}

// WheelConfig is only used by the diffdrive model.
type WheelConfig struct {
	Base     float64 `yaml:"base" json:"base"`
	Radius   float64 `yaml:"radius" json:"radius"`
	MaxSpeed float64 `yaml:"max_speed" json:"max_speed"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "unicycle",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Goal:       pose.New(1, 0, 0),
		Controller: ControllerConfig{
			Type:   "goal",
			Params: control.DefaultParams(),
		},
		Wheels: WheelConfig{
			Base:     models.DefaultWheelBase,
			Radius:   models.DefaultWheelRadius,
			MaxSpeed: models.DefaultMaxWheelSpeed,
		},
		StopAtGoal: true,
	}
}

// Load reads a configuration file over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a configuration file over a copy of base; fields the file
// leaves out keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 1) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalid, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 1) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalid, c.Duration)
	}
	p := c.Controller.Params
	nonNeg := []struct {
		name  string
		value float64
	}{
		{"linear_tolerance", p.LinearTolerance},
		{"angular_tolerance", p.AngularTolerance},
		{"max_linear_speed", p.MaxLinearSpeed},
		{"max_angular_speed", p.MaxAngularSpeed},
		{"max_linear_acceleration", p.MaxLinearAcceleration},
	}
	for _, f := range nonNeg {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite and non-negative, got %v", ErrInvalid, f.name, f.value)
		}
	}
	if c.Model == "diffdrive" && (c.Wheels.Base <= 0 || c.Wheels.Radius <= 0) {
		return fmt.Errorf("%w: wheel base and radius must be positive", ErrInvalid)
	}
	return nil
}

// Params returns the controller parameters.
func (c *Config) Params() control.Params {
	return c.Controller.Params
}

// ControllerName maps the controller section to a registry name.
func (c *Config) ControllerName() string {
	if c.Controller.Type == "goal" && c.Controller.Limit {
		return "goal_limited"
	}
	return c.Controller.Type
}

func (c *Config) InitState() dynamo.State {
	return dynamo.State{c.Start.X, c.Start.Y, c.Start.Theta}
}

func (c *Config) SimConfig() dynamo.Config {
	sc := dynamo.DefaultConfig()
	sc.Dt = c.Dt
	sc.Duration = c.Duration
	sc.StopAtGoal = c.StopAtGoal
	return sc
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

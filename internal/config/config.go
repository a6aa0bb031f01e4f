package config

import (
	"fmt"
	"os"

	"github.com/san-kum/hydrosim/internal/hydro"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFrames = 600
	DefaultFPS    = 60
	DefaultTheme  = "ocean"
	DefaultKp     = 0.8
	DefaultKi     = 0.05
	DefaultKd     = 0.1
)

type Config struct {
	Frames           int              `yaml:"frames"`
	FPS              int              `yaml:"fps"`
	Density          float64          `yaml:"density"`
	Gravity          float64          `yaml:"gravity"`
	Tolerance        float64          `yaml:"tolerance"`
	PressureStep     float64          `yaml:"pressure_step"`
	Applied          float64          `yaml:"applied"`
	Big              ContainerConfig  `yaml:"big"`
	Small            ContainerConfig  `yaml:"small"`
	Controller       string           `yaml:"controller"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
	Theme            string           `yaml:"theme"`
	Shader           string           `yaml:"shader,omitempty"`
}

// ContainerConfig places a container by its bottom-left corner.
type ContainerConfig struct {
	Left   float64 `yaml:"left"`
	Bottom float64 `yaml:"bottom"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ControllerConfig struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Target float64 `yaml:"target"`
}

func DefaultConfig() *Config {
	return &Config{
		Frames:       DefaultFrames,
		FPS:          DefaultFPS,
		Density:      hydro.DefaultDensity,
		Gravity:      hydro.DefaultGravity,
		PressureStep: hydro.DefaultPressureStep,
		Big:          ContainerConfig{Left: -0.75, Bottom: -0.5, Width: 0.5, Height: 0.5},
		Small:        ContainerConfig{Left: 0.5, Bottom: -0.5, Width: 0.25, Height: 0.5},
		Controller:   "none",
		ControllerParams: ControllerConfig{
			Kp:     DefaultKp,
			Ki:     DefaultKi,
			Kd:     DefaultKd,
			Target: 0.5,
		},
		Theme: DefaultTheme,
	}
}

// Load reads a yaml file on top of DefaultConfig, so missing keys keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Constants() hydro.Constants {
	return hydro.Constants{Density: c.Density, Gravity: c.Gravity}
}

// Apparatus builds the simulation state the config describes.
func (c *Config) Apparatus() (*hydro.Apparatus, error) {
	big, err := c.Big.container()
	if err != nil {
		return nil, fmt.Errorf("big container: %w", err)
	}
	small, err := c.Small.container()
	if err != nil {
		return nil, fmt.Errorf("small container: %w", err)
	}
	a, err := hydro.New(big, small, c.Constants())
	if err != nil {
		return nil, err
	}
	if err := a.SetTolerance(c.Tolerance); err != nil {
		return nil, err
	}
	a.SetApplied(c.Applied)
	return a, nil
}

func (c ContainerConfig) container() (hydro.Container, error) {
	return hydro.NewContainer(c.Left, c.Bottom, c.Width, c.Height)
}

// Step is the pressure event produced by one key press.
func (c *Config) Step() hydro.PressureEvent {
	if c.PressureStep <= 0 {
		return hydro.Increase()
	}
	return hydro.PressureEvent{Delta: c.PressureStep}
}

func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"kp":     c.ControllerParams.Kp,
		"ki":     c.ControllerParams.Ki,
		"kd":     c.ControllerParams.Kd,
		"target": c.ControllerParams.Target,
		"step":   c.Step().Delta,
	}
}

package config

import "sort"

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"pressed": preset(func(c *Config) {
		c.Applied = 1.0
	}),
	"lopsided": preset(func(c *Config) {
		c.Big.Height = 0.9
		c.Small.Height = 0.1
	}),
	"vacuum": preset(func(c *Config) {
		c.Applied = -3.0
	}),
	"mercury": preset(func(c *Config) {
		c.Density = 13.6
		c.Applied = 13.6
	}),
	"moon": preset(func(c *Config) {
		c.Gravity = 1.62
		c.Applied = 0.5
	}),
	"autopilot": preset(func(c *Config) {
		c.Controller = "pid"
		c.ControllerParams.Target = 0.8
		c.Frames = 1200
	}),
	"tolerant": preset(func(c *Config) {
		c.Big.Height = 0.9
		c.Small.Height = 0.1
		c.Tolerance = 1e-6
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

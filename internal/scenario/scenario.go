package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/experiment"
	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of key presses against a preset.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Preset      string `yaml:"preset"`
	Frames      int    `yaml:"frames"`
	Steps       []Step `yaml:"steps"`
}

// Step presses the piston Presses times (negative to pull) just before
// Frame is stepped.
type Step struct {
	Frame   int `yaml:"frame"`
	Presses int `yaml:"presses"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) Validate() error {
	if s.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", s.Frames)
	}
	if s.Preset != "" && config.GetPreset(s.Preset) == nil {
		return fmt.Errorf("unknown preset: %s", s.Preset)
	}
	for i, st := range s.Steps {
		if st.Frame < 1 {
			return fmt.Errorf("step %d: frame must be at least 1, got %d", i+1, st.Frame)
		}
	}
	return nil
}

// LastFrame is the highest frame any step targets.
func (s *Scenario) LastFrame() int {
	last := 0
	for _, st := range s.Steps {
		if st.Frame > last {
			last = st.Frame
		}
	}
	return last
}

// Script replays a scenario's presses as a controller.
type Script struct {
	step    hydro.PressureEvent
	presses map[int]int
}

func (s *Scenario) Script(step hydro.PressureEvent) *Script {
	if step.Delta <= 0 {
		step = hydro.Increase()
	}
	presses := make(map[int]int, len(s.Steps))
	for _, st := range s.Steps {
		presses[st.Frame] += st.Presses
	}
	return &Script{step: step, presses: presses}
}

func (sc *Script) Compute(a *hydro.Apparatus, frame int) []hydro.PressureEvent {
	n, ok := sc.presses[frame]
	if !ok || n == 0 {
		return nil
	}

	delta := sc.step.Delta
	if n < 0 {
		delta, n = -delta, -n
	}
	events := make([]hydro.PressureEvent, n)
	for i := range events {
		events[i] = hydro.PressureEvent{Delta: delta}
	}
	return events
}

var ErrNoConfig = errors.New("scenario: no base config")

// Config resolves the config the scenario runs against: its preset if it
// names one, base otherwise. The frame budget always covers the last step.
func (s *Scenario) Config(base *config.Config) (*config.Config, error) {
	var cfg *config.Config
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	} else if base != nil {
		c := *base
		cfg = &c
	} else {
		return nil, ErrNoConfig
	}

	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	if last := s.LastFrame(); cfg.Frames < last {
		cfg.Frames = last
	}
	return cfg, nil
}

// Run executes the scenario headless with the default metrics.
func Run(ctx context.Context, s *Scenario, base *config.Config, registry *experiment.Registry) (*experiment.Experiment, *sim.Result, error) {
	cfg, err := s.Config(base)
	if err != nil {
		return nil, nil, err
	}

	name := s.Name
	if name == "" {
		name = "scenario"
	}
	log.Info("running scenario", "name", name, "frames", cfg.Frames, "steps", len(s.Steps))

	exp := experiment.New(name, cfg)
	exp.SetControllerName("script")
	if err := exp.Setup(s.Script(cfg.Step()), registry.DefaultMetrics()); err != nil {
		return nil, nil, err
	}

	result, err := exp.Run(ctx, 0)
	if err != nil {
		return exp, result, fmt.Errorf("scenario %s: %w", name, err)
	}
	return exp, result, nil
}

package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/sim"
	"github.com/san-kum/hydrosim/internal/storage"
)

// Experiment is one configured run: a named config, the apparatus it
// builds and the simulator that drives it.
type Experiment struct {
	name       string
	cfg        *config.Config
	controller string
	simulator  *sim.Simulator
}

func New(name string, cfg *config.Config) *Experiment {
	return &Experiment{
		name:       name,
		cfg:        cfg,
		controller: cfg.Controller,
	}
}

func (e *Experiment) Setup(controller sim.Controller, metrics []sim.Metric) error {
	app, err := e.cfg.Apparatus()
	if err != nil {
		return fmt.Errorf("experiment %s: %w", e.name, err)
	}

	e.simulator = sim.New(app, controller)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

// SetupFrom resolves the configured controller and default metrics from
// the registry.
func (e *Experiment) SetupFrom(registry *Registry) error {
	ctrl, err := registry.GetController(e.cfg.Controller, e.cfg)
	if err != nil {
		return err
	}
	return e.Setup(ctrl, registry.DefaultMetrics())
}

// SetControllerName overrides the controller label stored with the run.
func (e *Experiment) SetControllerName(name string) {
	e.controller = name
}

func (e *Experiment) Run(ctx context.Context, settle int) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	return e.simulator.Run(ctx, sim.Config{
		Frames:          e.cfg.Frames,
		StopWhenSettled: settle,
	})
}

// Info describes the run for storage and export.
func (e *Experiment) Info() storage.RunInfo {
	return storage.RunInfo{
		Preset:     e.name,
		Controller: e.controller,
		Constants:  e.cfg.Constants(),
	}
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

package scenario

import (
	"context"
	"fmt"

	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/experiment"
	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/sim"
)

// ParameterSweep runs the same config across a range of one parameter.
type ParameterSweep struct {
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

type SweepResult struct {
	Value   float64
	Final   hydro.Frame
	Metrics map[string]float64
}

// SweepParams lists the parameters a sweep can vary.
var SweepParams = []string{"applied", "density", "gravity", "big_height", "small_height"}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "applied":
		cfg.Applied = v
	case "density":
		cfg.Density = v
	case "gravity":
		cfg.Gravity = v
	case "big_height":
		cfg.Big.Height = v
	case "small_height":
		cfg.Small.Height = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// RunSweep runs every value of the sweep concurrently against base.
func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	values := make([]float64, sweep.NumSteps)
	variants := make([]sim.Variant, sweep.NumSteps)
	for i := range values {
		values[i] = sweep.Min + float64(i)*paramStep

		c := *base
		cfg := &c
		if err := setParam(cfg, sweep.Param, values[i]); err != nil {
			return nil, err
		}

		app, err := cfg.Apparatus()
		if err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.Param, values[i], err)
		}
		ctrl, err := registry.GetController(cfg.Controller, cfg)
		if err != nil {
			return nil, err
		}

		variants[i] = sim.Variant{
			Label:      fmt.Sprintf("%s=%.4f", sweep.Param, values[i]),
			Apparatus:  app,
			Controller: ctrl,
		}
	}

	results, err := sim.NewSweep(variants, registry.DefaultMetrics).Run(ctx, sim.Config{Frames: base.Frames})
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, r := range results {
		out[i] = SweepResult{
			Value:   values[i],
			Final:   r.Final(),
			Metrics: r.Metrics,
		}
	}
	return out, nil
}

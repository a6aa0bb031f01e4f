package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/experiment"
	"github.com/san-kum/hydrosim/internal/metrics"
	"github.com/san-kum/hydrosim/internal/sim"
)

var ErrNoCandidate = errors.New("optim: no candidate completed")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every combination of the grid and returns the one with the
// lowest value of metricName. Candidates that fail to build or run are
// skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			log.Debug("skipping candidate", "params", current, "err", err)
			return nil
		}

		result, err := exp.Run(ctx, 0)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Debug("candidate failed", "params", current, "err", err)
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok || math.IsNaN(val) {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// TunePID searches kp, ki and kd for the autopilot gains that keep the
// small column closest to the configured target.
func TunePID(ctx context.Context, base *config.Config, kp, ki, kd []float64) (map[string]float64, float64, error) {
	registry := experiment.NewRegistry()
	target := base.ControllerParams.Target

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *base
		cfg := &c
		cfg.Controller = "pid"
		cfg.ControllerParams.Kp = params["kp"]
		cfg.ControllerParams.Ki = params["ki"]
		cfg.ControllerParams.Kd = params["kd"]

		ctrl, err := registry.GetController(cfg.Controller, cfg)
		if err != nil {
			return nil, err
		}

		exp := experiment.New("tune", cfg)
		m := append(registry.DefaultMetrics(), sim.Metric(metrics.NewTrackingError(target)))
		if err := exp.Setup(ctrl, m); err != nil {
			return nil, err
		}
		return exp, nil
	}

	g := NewGridSearch([]string{"kp", "ki", "kd"}, [][]float64{kp, ki, kd})
	return g.Search(ctx, build, "tracking_error")
}

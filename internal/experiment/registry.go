package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/control"
	"github.com/san-kum/hydrosim/internal/metrics"
	"github.com/san-kum/hydrosim/internal/sim"
)

type Registry struct {
	controllers map[string]func(*config.Config) sim.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]func(*config.Config) sim.Controller),
	}

	r.controllers["none"] = func(cfg *config.Config) sim.Controller {
		return control.NewNone()
	}
	r.controllers["manual"] = func(cfg *config.Config) sim.Controller {
		return control.NewManual(cfg.Step())
	}
	r.controllers["pid"] = func(cfg *config.Config) sim.Controller {
		p := cfg.GetControllerParams()
		pid := control.NewPID(p["kp"], p["ki"], p["kd"], p["target"])
		pid.Step = p["step"]
		return pid
	}

	return r
}

func (r *Registry) GetController(name string, cfg *config.Config) (sim.Controller, error) {
	if name == "" {
		name = "none"
	}
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}

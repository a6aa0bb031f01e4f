package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/hydrosim/internal/hydro"
)

// Simulator drives an Apparatus frame by frame without a display: apply
// the controller's events, step, record.
type Simulator struct {
	app        *hydro.Apparatus
	controller Controller
	metrics    []Metric
	observers  []Observer
}

func New(app *hydro.Apparatus, controller Controller) *Simulator {
	return &Simulator{
		app:        app,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Apparatus() *hydro.Apparatus { return s.app }

// Advance consumes the controller's events and steps one frame.
func (s *Simulator) Advance(frame int) (hydro.Frame, int) {
	var events []hydro.PressureEvent
	if s.controller != nil {
		events = s.controller.Compute(s.app, frame)
	}
	s.app.ApplyAll(events)

	outcome := s.app.Step()
	f := s.app.Snapshot()
	f.Index = frame
	f.Outcome = outcome
	return f, len(events)
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:   make([]hydro.Frame, 0, cfg.Frames),
		Metrics:  make(map[string]float64),
		Outcomes: make(map[hydro.Outcome]int),
	}

	for _, m := range s.metrics {
		m.Reset()
		if st, ok := m.(Starter); ok {
			st.Start(s.app)
		}
	}

	settled := 0
	drained := false
	for i := 1; i <= cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		f, presses := s.Advance(i)

		if !finite(f) {
			log.Error("state diverged", "frame", i, "applied", f.Applied)
			return result, SimError{Frame: i, Message: "non-finite level (NaN/Inf)"}
		}

		if f.Outcome == hydro.Drained && !drained {
			log.Debug("underflow guard engaged", "frame", i, "big", f.BigHeight, "small", f.SmallHeight, "applied", f.Applied)
		}
		drained = f.Outcome == hydro.Drained

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}

		result.Frames = append(result.Frames, f)
		result.Outcomes[f.Outcome]++
		result.StepsTaken++

		if f.Outcome == hydro.Balanced && presses == 0 {
			settled++
		} else {
			settled = 0
		}
		if cfg.StopWhenSettled > 0 && settled >= cfg.StopWhenSettled {
			log.Debug("settled", "frame", i)
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.StopWhenSettled < 0 {
		return fmt.Errorf("settle window must not be negative, got %d", cfg.StopWhenSettled)
	}
	return nil
}

// RunWithCallback steps until the callback returns false, the frame budget
// runs out, or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(hydro.Frame) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	for i := 1; i <= cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, _ := s.Advance(i)
		if !finite(f) {
			return fmt.Errorf("invalid level at frame %d", i)
		}
		if !callback(f) {
			return nil
		}
	}

	return nil
}

func finite(f hydro.Frame) bool {
	for _, v := range f.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

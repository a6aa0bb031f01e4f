package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/sim"
)

func TestLevelGap(t *testing.T) {
	m := NewLevelGap()
	m.Observe(hydro.Frame{BigHeight: 0.9, SmallHeight: 0.1})
	m.Observe(hydro.Frame{BigHeight: 0.4, SmallHeight: 0.6})

	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("expected last gap 0.2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero gap after reset")
	}
}

func TestPressureGap(t *testing.T) {
	m := NewPressureGap()
	m.Observe(hydro.Frame{BigPressure: 4.9, SmallPressure: 4.9, Applied: 1})
	m.Observe(hydro.Frame{BigPressure: 4.9, SmallPressure: 4.9, Applied: -3})
	m.Observe(hydro.Frame{BigPressure: 4.9, SmallPressure: 4.9})

	if m.Value() != 3 {
		t.Errorf("expected max gap 3, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability()
	if m.Value() != 1.0 {
		t.Error("expected 1.0 with no samples")
	}

	m.Observe(hydro.Frame{Outcome: hydro.Moved})
	m.Observe(hydro.Frame{Outcome: hydro.Balanced})
	m.Observe(hydro.Frame{Outcome: hydro.Balanced})
	m.Observe(hydro.Frame{Outcome: hydro.Drained})

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestDrained(t *testing.T) {
	m := NewDrained()
	m.Observe(hydro.Frame{Outcome: hydro.Drained})
	m.Observe(hydro.Frame{Outcome: hydro.Moved})
	m.Observe(hydro.Frame{Outcome: hydro.Drained})

	if m.Value() != 2 {
		t.Errorf("expected 2 drained frames, got %f", m.Value())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	for _, p := range []float64{0.1, 0.2, 0.2, -0.1} {
		m.Observe(hydro.Frame{Applied: p})
	}

	// 0.1 + 0.1 + 0 + 0.3
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected effort 0.5, got %f", m.Value())
	}
}

func TestControlEffortFromStart(t *testing.T) {
	a := hydro.NewClassic()
	a.SetApplied(1.0)

	m := NewControlEffort()
	m.Start(a)
	for _, p := range []float64{1.0, 1.2, 1.0} {
		m.Observe(hydro.Frame{Applied: p})
	}

	if math.Abs(m.Value()-0.4) > 1e-12 {
		t.Errorf("expected effort 0.4, got %f", m.Value())
	}
}

func TestReversals(t *testing.T) {
	m := NewReversals()
	// up, flat, up, down, up, up
	for _, p := range []float64{0.1, 0.1, 0.2, 0.1, 0.2, 0.3} {
		m.Observe(hydro.Frame{Applied: p})
	}

	if m.Value() != 2 {
		t.Errorf("expected 2 reversals, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestSettleFrame(t *testing.T) {
	m := NewSettleFrame(0.01)
	heights := []float64{0.5, 0.55, 0.58, 0.6, 0.6, 0.6}
	for i, h := range heights {
		m.Observe(hydro.Frame{Index: i + 1, SmallHeight: h})
	}

	// 0.6 is reached at frame 4 and held.
	if m.Value() != 4 {
		t.Errorf("expected settle frame 4, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestTrackingError(t *testing.T) {
	m := NewTrackingError(0.8)
	if m.Value() != 0 {
		t.Error("expected 0 with no samples")
	}

	m.Observe(hydro.Frame{SmallHeight: 0.5})
	m.Observe(hydro.Frame{SmallHeight: 0.9})

	// (0.3 + 0.1) / 2
	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("expected mean error 0.2, got %f", m.Value())
	}
}

func TestDefaultMetricsOnRun(t *testing.T) {
	a := hydro.NewClassic()
	a.SetApplied(-20)

	s := sim.New(a, nil)
	for _, m := range Default() {
		s.AddMetric(m)
	}

	result, err := s.Run(context.Background(), sim.Config{Frames: 10})
	if err != nil {
		t.Fatal(err)
	}

	if result.Metrics["drained_frames"] != 10 {
		t.Errorf("expected every frame drained, got %f", result.Metrics["drained_frames"])
	}
	if result.Metrics["level_gap"] != 0 {
		t.Errorf("levels should not move, got gap %f", result.Metrics["level_gap"])
	}
	if len(result.Metrics) != len(Default()) {
		t.Errorf("expected %d metrics, got %d", len(Default()), len(result.Metrics))
	}
}

package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/control"
)

func TestRegistryControllers(t *testing.T) {
	r := NewRegistry()
	cfg := config.DefaultConfig()

	for _, name := range []string{"none", "manual", "pid", ""} {
		if _, err := r.GetController(name, cfg); err != nil {
			t.Errorf("controller %q: %v", name, err)
		}
	}

	if _, err := r.GetController("lqr", cfg); err == nil {
		t.Error("expected error for unknown controller")
	}

	got := r.ListControllers()
	want := []string{"manual", "none", "pid"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestRegistryPIDUsesConfigStep(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PressureStep = 0.25

	ctrl, err := NewRegistry().GetController("pid", cfg)
	if err != nil {
		t.Fatal(err)
	}
	pid, ok := ctrl.(*control.PID)
	if !ok {
		t.Fatalf("expected *control.PID, got %T", ctrl)
	}
	if pid.Step != 0.25 {
		t.Errorf("expected step 0.25, got %f", pid.Step)
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("lopsided")
	cfg.Frames = 100

	exp := New("lopsided", cfg)
	if _, err := exp.Run(context.Background(), 0); err == nil {
		t.Error("expected error before setup")
	}

	if err := exp.SetupFrom(NewRegistry()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := exp.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken >= 100 {
		t.Errorf("expected the run to settle early, ran %d frames", result.StepsTaken)
	}
	if _, ok := result.Metrics["level_gap"]; !ok {
		t.Error("expected default metrics to be recorded")
	}

	info := exp.Info()
	if info.Preset != "lopsided" || info.Controller != "none" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestPressedPresetIdleHasNoEffort(t *testing.T) {
	cfg := config.GetPreset("pressed")
	cfg.Frames = 50

	exp := New("pressed", cfg)
	if err := exp.SetupFrom(NewRegistry()); err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}

	if got := result.Metrics["control_effort"]; got != 0 {
		t.Errorf("expected no effort from the preset pressure, got %f", got)
	}
	if got := result.Metrics["reversals"]; got != 0 {
		t.Errorf("expected no reversals, got %f", got)
	}
}

func TestExperimentInvalidGeometry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Small.Width = 0

	if err := New("broken", cfg).SetupFrom(NewRegistry()); err == nil {
		t.Error("expected setup to fail")
	}
}

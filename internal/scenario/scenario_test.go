package scenario

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/experiment"
	"github.com/san-kum/hydrosim/internal/hydro"
)

const pumpYAML = `
name: pump
description: push the piston twice then let go
preset: classic
frames: 40
steps:
  - frame: 5
    presses: 10
  - frame: 20
    presses: 5
  - frame: 30
    presses: -15
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(pumpYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if sc.Name != "pump" || sc.Preset != "classic" || sc.Frames != 40 {
		t.Errorf("unexpected header %+v", sc)
	}
	if len(sc.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(sc.Steps))
	}
	if sc.Steps[2].Presses != -15 {
		t.Errorf("expected -15 presses, got %d", sc.Steps[2].Presses)
	}
	if sc.LastFrame() != 30 {
		t.Errorf("expected last frame 30, got %d", sc.LastFrame())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "steps: [frame: 1"},
		{"negative frames", "frames: -1"},
		{"frame zero", "steps:\n  - frame: 0\n    presses: 1\n"},
		{"unknown preset", "preset: jupiter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pump.yaml")
	if err := os.WriteFile(path, []byte(pumpYAML), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "pump" {
		t.Errorf("expected pump, got %s", sc.Name)
	}

	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestScript(t *testing.T) {
	sc := &Scenario{Steps: []Step{{Frame: 2, Presses: 3}, {Frame: 2, Presses: -1}, {Frame: 4, Presses: -2}}}
	script := sc.Script(hydro.Increase())

	a := hydro.NewClassic()
	if ev := script.Compute(a, 1); len(ev) != 0 {
		t.Errorf("frame 1: expected no events, got %d", len(ev))
	}

	ev := script.Compute(a, 2)
	if len(ev) != 2 || ev[0].Delta != hydro.DefaultPressureStep {
		t.Errorf("frame 2: expected 2 increases, got %v", ev)
	}

	ev = script.Compute(a, 4)
	if len(ev) != 2 || ev[0].Delta != -hydro.DefaultPressureStep {
		t.Errorf("frame 4: expected 2 decreases, got %v", ev)
	}
}

func TestRun(t *testing.T) {
	sc, err := Parse([]byte(pumpYAML))
	if err != nil {
		t.Fatal(err)
	}

	exp, result, err := Run(context.Background(), sc, nil, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 40 {
		t.Errorf("expected 40 frames, got %d", len(result.Frames))
	}
	if math.Abs(result.Frames[4].Applied-1.0) > 1e-9 {
		t.Errorf("expected applied 1.0 at frame 5, got %f", result.Frames[4].Applied)
	}
	if math.Abs(result.Frames[19].Applied-1.5) > 1e-9 {
		t.Errorf("expected applied 1.5 at frame 20, got %f", result.Frames[19].Applied)
	}
	if math.Abs(result.Final().Applied) > 1e-9 {
		t.Errorf("expected piston released, got %f", result.Final().Applied)
	}
	if math.Abs(result.Final().BigHeight-result.Final().SmallHeight) > 1e-6 {
		t.Errorf("expected levels to return, got %f vs %f", result.Final().BigHeight, result.Final().SmallHeight)
	}

	if info := exp.Info(); info.Controller != "script" || info.Preset != "pump" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestScenarioConfig(t *testing.T) {
	base := config.DefaultConfig()
	base.Frames = 10

	sc := &Scenario{Steps: []Step{{Frame: 25, Presses: 1}}}
	cfg, err := sc.Config(base)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Frames != 25 {
		t.Errorf("frame budget should cover the last step, got %d", cfg.Frames)
	}
	if base.Frames != 10 {
		t.Error("base config must not be modified")
	}

	if _, err := (&Scenario{}).Config(nil); err != ErrNoConfig {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Frames = 30

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Param:    "applied",
		Min:      0,
		Max:      2,
		NumSteps: 3,
	}, base, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].Value != 1 {
		t.Errorf("expected middle value 1, got %f", results[1].Value)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Final.SmallHeight <= results[i-1].Final.SmallHeight {
			t.Errorf("small side should rise with pressure: %f <= %f",
				results[i].Final.SmallHeight, results[i-1].Final.SmallHeight)
		}
	}
}

func TestRunSweepErrors(t *testing.T) {
	base := config.DefaultConfig()
	reg := experiment.NewRegistry()

	if _, err := RunSweep(context.Background(), &ParameterSweep{Param: "applied"}, base, reg); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Param: "viscosity", NumSteps: 2}, base, reg); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Param: "density", Min: -1, Max: 1, NumSteps: 2}, base, reg); err == nil {
		t.Error("expected error for invalid density")
	}
}

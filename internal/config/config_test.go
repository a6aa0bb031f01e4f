package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/hydrosim/internal/hydro"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Density != 1.0 {
		t.Errorf("expected density 1.0, got %f", cfg.Density)
	}
	if cfg.Gravity != 9.8 {
		t.Errorf("expected gravity 9.8, got %f", cfg.Gravity)
	}
	if cfg.Frames <= 0 {
		t.Error("frames should be positive")
	}
	if cfg.Tolerance != 0 {
		t.Error("default tolerance should be exact comparison")
	}
}

func TestApparatusMatchesClassic(t *testing.T) {
	a, err := DefaultConfig().Apparatus()
	if err != nil {
		t.Fatalf("apparatus: %v", err)
	}
	classic := hydro.NewClassic()
	if a.Big != classic.Big || a.Small != classic.Small {
		t.Errorf("default config should build the classic apparatus")
	}
}

func TestApparatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"zero width", func(c *Config) { c.Small.Width = 0 }, hydro.ErrInvalidContainer},
		{"negative height", func(c *Config) { c.Big.Height = -1 }, hydro.ErrInvalidContainer},
		{"zero gravity", func(c *Config) { c.Gravity = 0 }, hydro.ErrInvalidConstants},
		{"negative tolerance", func(c *Config) { c.Tolerance = -0.1 }, hydro.ErrInvalidTolerance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			_, err := cfg.Apparatus()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydro.yaml")

	cfg := DefaultConfig()
	cfg.Applied = 1.5
	cfg.Small.Width = 0.1
	cfg.Controller = "pid"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Applied != 1.5 || loaded.Small.Width != 0.1 || loaded.Controller != "pid" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("applied: 2.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Applied != 2.0 {
		t.Errorf("expected applied 2.0, got %f", cfg.Applied)
	}
	if cfg.Gravity != 9.8 {
		t.Errorf("expected default gravity, got %f", cfg.Gravity)
	}

	a, err := cfg.Apparatus()
	if err != nil {
		t.Fatal(err)
	}
	a.Applied = 0
	a.Reset()
	if a.Applied != 2.0 {
		t.Errorf("reset should restore configured pressure, got %f", a.Applied)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("frames: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestStep(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Step().Delta; got != 0.1 {
		t.Errorf("expected step 0.1, got %f", got)
	}

	cfg.PressureStep = 0
	if got := cfg.Step().Delta; got != hydro.DefaultPressureStep {
		t.Errorf("expected fallback step, got %f", got)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lopsided")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Big.Height != 0.9 {
		t.Errorf("expected big height 0.9, got %f", cfg.Big.Height)
	}

	cfg.Big.Height = 0.1
	if Presets["lopsided"].Big.Height != 0.9 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}

	for _, name := range presets {
		if _, err := GetPreset(name).Apparatus(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

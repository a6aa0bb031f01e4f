package sim

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/san-kum/hydrosim/internal/hydro"
)

type startMetric struct {
	countMetric
	applied float64
	starts  int
}

func (s *startMetric) Start(a *hydro.Apparatus) {
	s.applied = a.Applied
	s.starts++
}

func TestSimulatorStartsMetrics(t *testing.T) {
	a := hydro.NewClassic()
	a.SetApplied(1.5)

	m := &startMetric{}
	s := New(a, nil)
	s.AddMetric(m)

	for range 2 {
		if _, err := s.Run(context.Background(), Config{Frames: 3}); err != nil {
			t.Fatal(err)
		}
	}

	if m.starts != 2 {
		t.Errorf("expected a start per run, got %d", m.starts)
	}
	if m.applied != 1.5 {
		t.Errorf("expected start to see applied 1.5, got %f", m.applied)
	}
	if m.count != 3 {
		t.Errorf("expected reset between runs, got %d observations", m.count)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	s := New(hydro.NewClassic(), nil)
	s.AddObserver(&Progress{W: &buf, Total: 25, Every: 10})

	if _, err := s.Run(context.Background(), Config{Frames: 25}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected lines for frames 10, 20 and 25, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[2], "frame 25/25") {
		t.Errorf("expected final frame line, got %q", lines[2])
	}
	if !strings.Contains(lines[0], "balanced") {
		t.Errorf("expected outcome in %q", lines[0])
	}
}

package metrics

import (
	"math"

	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/sim"
)

// LevelGap reports the final difference in fluid level between the two
// sides.
type LevelGap struct {
	name string
	gap  float64
}

func NewLevelGap() *LevelGap {
	return &LevelGap{name: "level_gap"}
}

func (l *LevelGap) Name() string { return l.name }

func (l *LevelGap) Observe(f hydro.Frame) {
	l.gap = math.Abs(f.BigHeight - f.SmallHeight)
}

func (l *LevelGap) Value() float64 { return l.gap }
func (l *LevelGap) Reset()         { l.gap = 0 }

// PressureGap reports the largest unbalanced pressure seen, piston
// included.
type PressureGap struct {
	name string
	max  float64
}

func NewPressureGap() *PressureGap {
	return &PressureGap{name: "max_pressure_gap"}
}

func (p *PressureGap) Name() string { return p.name }

func (p *PressureGap) Observe(f hydro.Frame) {
	gap := math.Abs(f.BigPressure + f.Applied - f.SmallPressure)
	p.max = math.Max(p.max, gap)
}

func (p *PressureGap) Value() float64 { return p.max }
func (p *PressureGap) Reset()         { p.max = 0 }

// SettleFrame is the first frame after which the small level stayed within
// band of its final value. It is only meaningful once the run is over.
type SettleFrame struct {
	band    float64
	heights []float64
	first   int
}

func NewSettleFrame(band float64) *SettleFrame {
	return &SettleFrame{band: band}
}

func (s *SettleFrame) Name() string { return "settle_frame" }

func (s *SettleFrame) Observe(f hydro.Frame) {
	if len(s.heights) == 0 {
		s.first = f.Index
	}
	s.heights = append(s.heights, f.SmallHeight)
}

func (s *SettleFrame) Value() float64 {
	if len(s.heights) == 0 {
		return 0
	}
	final := s.heights[len(s.heights)-1]
	i := len(s.heights) - 1
	for i > 0 && math.Abs(s.heights[i-1]-final) <= s.band {
		i--
	}
	return float64(s.first + i)
}

func (s *SettleFrame) Reset() {
	s.heights = s.heights[:0]
	s.first = 0
}

// TrackingError is the mean distance of the small level from a target
// height.
type TrackingError struct {
	target  float64
	sum     float64
	samples int
}

func NewTrackingError(target float64) *TrackingError {
	return &TrackingError{target: target}
}

func (t *TrackingError) Name() string { return "tracking_error" }

func (t *TrackingError) Observe(f hydro.Frame) {
	t.sum += math.Abs(f.SmallHeight - t.target)
	t.samples++
}

func (t *TrackingError) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return t.sum / float64(t.samples)
}

func (t *TrackingError) Reset() {
	t.sum = 0
	t.samples = 0
}

// Default returns the metrics recorded for every run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewLevelGap(),
		NewPressureGap(),
		NewStability(),
		NewDrained(),
		NewControlEffort(),
		NewReversals(),
		NewSettleFrame(1e-3),
	}
}

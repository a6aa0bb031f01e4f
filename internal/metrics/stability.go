package metrics

import "github.com/san-kum/hydrosim/internal/hydro"

// Stability is the fraction of frames that needed no adjustment.
type Stability struct {
	name     string
	balanced int
	samples  int
}

func NewStability() *Stability {
	return &Stability{
		name: "balanced_ratio",
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f hydro.Frame) {
	s.samples++
	if f.Outcome == hydro.Balanced {
		s.balanced++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return float64(s.balanced) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.balanced = 0
	s.samples = 0
}

// Drained counts frames where the underflow guard blocked a move.
type Drained struct {
	count int
}

func NewDrained() *Drained { return &Drained{} }

func (d *Drained) Name() string { return "drained_frames" }

func (d *Drained) Observe(f hydro.Frame) {
	if f.Outcome == hydro.Drained {
		d.count++
	}
}

func (d *Drained) Value() float64 { return float64(d.count) }
func (d *Drained) Reset()         { d.count = 0 }

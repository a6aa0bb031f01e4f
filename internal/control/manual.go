package control

import "github.com/san-kum/hydrosim/internal/hydro"

// Manual queues key presses between frames and hands them to the owning
// loop on the next Compute.
type Manual struct {
	step    hydro.PressureEvent
	pending []hydro.PressureEvent
}

func NewManual(step hydro.PressureEvent) *Manual {
	if step.Delta == 0 {
		step = hydro.Increase()
	}
	return &Manual{step: step}
}

// Press queues one step of pressure; negative directions pull the piston.
func (m *Manual) Press(direction int) {
	switch {
	case direction > 0:
		m.pending = append(m.pending, m.step)
	case direction < 0:
		m.pending = append(m.pending, hydro.PressureEvent{Delta: -m.step.Delta})
	}
}

func (m *Manual) Pending() int { return len(m.pending) }

func (m *Manual) Compute(a *hydro.Apparatus, frame int) []hydro.PressureEvent {
	out := m.pending
	m.pending = nil
	return out
}

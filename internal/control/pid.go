package control

import (
	"math"

	"github.com/san-kum/hydrosim/internal/hydro"
)

// PID presses the piston like a user holding a key, at most MaxPresses
// per frame, to keep the small column at Target. Gains act on the height
// error in height units; the output is converted to pressure before it is
// quantized into key presses.
type PID struct {
	Kp         float64
	Ki         float64
	Kd         float64
	Target     float64
	Step       float64
	MaxPresses int
	integral   float64
	prevErr    float64
	first      bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:         kp,
		Ki:         ki,
		Kd:         kd,
		Target:     target,
		Step:       hydro.DefaultPressureStep,
		MaxPresses: 1,
		first:      true,
	}
}

func (p *PID) Compute(a *hydro.Apparatus, frame int) []hydro.PressureEvent {
	err := p.Target - a.Small.Height

	derivative := 0.0
	if !p.first {
		derivative = err - p.prevErr
	}
	p.prevErr = err
	p.first = false

	u := p.Kp*err + p.Ki*(p.integral+err) + p.Kd*derivative
	n := p.presses(a.PressureAt(u))

	// Integrate only while the output is not saturated.
	if abs(n) < p.MaxPresses {
		p.integral += err
	}

	if n == 0 {
		return nil
	}
	events := make([]hydro.PressureEvent, abs(n))
	delta := p.Step
	if n < 0 {
		delta = -delta
	}
	for i := range events {
		events[i] = hydro.PressureEvent{Delta: delta}
	}
	return events
}

func (p *PID) presses(pressure float64) int {
	if p.Step <= 0 {
		return 0
	}
	n := int(math.Round(pressure / p.Step))
	if n > p.MaxPresses {
		n = p.MaxPresses
	}
	if n < -p.MaxPresses {
		n = -p.MaxPresses
	}
	return n
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

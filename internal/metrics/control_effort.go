package metrics

import (
	"math"

	"github.com/san-kum/hydrosim/internal/hydro"
)

// ControlEffort is the total distance the applied pressure travelled,
// i.e. how hard the piston was worked. It is measured from the pressure
// the run started with, zero unless Start says otherwise.
type ControlEffort struct {
	name string
	sum  float64
	last float64
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Start(a *hydro.Apparatus) {
	c.last = a.Applied
}

func (c *ControlEffort) Observe(f hydro.Frame) {
	c.sum += math.Abs(f.Applied - c.last)
	c.last = f.Applied
}

func (c *ControlEffort) Value() float64 {
	return c.sum
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.last = 0
}

// Reversals counts how often the applied pressure changes direction: a
// push followed by a pull or the other way round. A controller hunting
// around its target shows up here.
type Reversals struct {
	count int
	last  float64
	dir   int
}

func NewReversals() *Reversals {
	return &Reversals{}
}

func (r *Reversals) Name() string {
	return "reversals"
}

func (r *Reversals) Start(a *hydro.Apparatus) {
	r.last = a.Applied
}

func (r *Reversals) Observe(f hydro.Frame) {
	d := f.Applied - r.last
	r.last = f.Applied

	dir := 0
	switch {
	case d > 0:
		dir = 1
	case d < 0:
		dir = -1
	default:
		return
	}
	if r.dir != 0 && dir != r.dir {
		r.count++
	}
	r.dir = dir
}

func (r *Reversals) Value() float64 {
	return float64(r.count)
}

func (r *Reversals) Reset() {
	r.count = 0
	r.last = 0
	r.dir = 0
}

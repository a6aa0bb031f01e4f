package hydro

import "math"

// Outcome reports what a single Step did.
type Outcome int

const (
	// Moved means both levels changed.
	Moved Outcome = iota
	// Balanced means the pressures already matched.
	Balanced
	// Drained means the move would have pushed a column below zero, so it
	// was skipped.
	Drained
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Balanced:
		return "balanced"
	case Drained:
		return "drained"
	default:
		return "unknown"
	}
}

// Step relaxes the apparatus one frame toward equilibrium.
//
// The small side's level needed to match the big side's pressure is
// computed, and both sides move halfway toward it. This is an averaging
// heuristic, not volume-conserving physics: in a real, undamped system the
// levels would oscillate around equilibrium.
func (a *Apparatus) Step() Outcome {
	a.Big.Pressure = a.PressureAt(a.Big.Height)
	a.Small.Pressure = a.PressureAt(a.Small.Height)

	left := a.Big.Pressure + a.Applied
	right := a.Small.Pressure
	if a.balanced(left, right) {
		return Balanced
	}

	target := a.HeightFor(left)
	delta := (a.Small.Height - target) / 2

	// A drained side only reacts to changes that would refill it.
	if a.Big.Height+delta < 0 || target+delta < 0 {
		return Drained
	}

	a.Big.Height += delta
	target += delta

	a.Small.setTop(target)
	a.Big.setTop(a.Big.Height)
	a.Small.Height = a.Small.geometricHeight()
	return Moved
}

func (a *Apparatus) balanced(left, right float64) bool {
	if a.Tolerance == 0 {
		return left == right
	}
	return math.Abs(left-right) <= a.Tolerance
}

package hydro

// PressureEvent is a discrete change to the applied pressure, produced by
// input handling and consumed by the loop that owns the Apparatus.
type PressureEvent struct {
	Delta float64
}

// Increase pushes the piston down by one step.
func Increase() PressureEvent {
	return PressureEvent{Delta: DefaultPressureStep}
}

// Decrease pulls the piston up by one step.
func Decrease() PressureEvent {
	return PressureEvent{Delta: -DefaultPressureStep}
}

// Presses returns n events of the given sign, n may be negative.
func Presses(n int) []PressureEvent {
	ev := Increase()
	if n < 0 {
		ev, n = Decrease(), -n
	}
	out := make([]PressureEvent, n)
	for i := range out {
		out[i] = ev
	}
	return out
}

// Apply adds the event to the applied pressure. The applied pressure is
// unbounded in either direction.
func (a *Apparatus) Apply(ev PressureEvent) {
	a.Applied += ev.Delta
}

// ApplyAll drains a batch of pending events in order.
func (a *Apparatus) ApplyAll(events []PressureEvent) {
	for _, ev := range events {
		a.Apply(ev)
	}
}

package sim

import (
	"fmt"

	"github.com/san-kum/hydrosim/internal/hydro"
)

// Controller produces the pressure events applied before a frame is
// stepped.
type Controller interface {
	Compute(a *hydro.Apparatus, frame int) []hydro.PressureEvent
}

type Metric interface {
	Name() string
	Observe(f hydro.Frame)
	Value() float64
	Reset()
}

// Starter is implemented by metrics that need the state the run begins
// from. Start is called after Reset, before the first frame.
type Starter interface {
	Start(a *hydro.Apparatus)
}

type Observer interface {
	OnFrame(f hydro.Frame)
}

type Config struct {
	Frames int
	// StopWhenSettled ends the run after this many consecutive balanced
	// frames with no pending input. Zero disables it.
	StopWhenSettled int
}

func DefaultConfig() Config {
	return Config{Frames: 600}
}

type Result struct {
	Frames     []hydro.Frame
	Metrics    map[string]float64
	Outcomes   map[hydro.Outcome]int
	StepsTaken int
}

// Final returns the last recorded frame.
func (r *Result) Final() hydro.Frame {
	if len(r.Frames) == 0 {
		return hydro.Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

type SimError struct {
	Frame   int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d: %s", e.Frame, e.Message)
}

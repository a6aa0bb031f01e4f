package hydro

import (
	"fmt"
	"math"
)

const (
	DefaultDensity      = 1.0
	DefaultGravity      = 9.8
	DefaultPressureStep = 0.1
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Container is one side of the apparatus. The corner points are display
// state; Height is authoritative for the physics except where Step derives
// the small side's height back from its quad.
type Container struct {
	Height      float64
	Width       float64
	BottomLeft  Vec2
	BottomRight Vec2
	TopLeft     Vec2
	TopRight    Vec2
	Pressure    float64
}

// NewContainer builds a container whose bottom-left corner sits at
// (left, bottom).
func NewContainer(left, bottom, width, height float64) (Container, error) {
	if width <= 0 || height < 0 || math.IsNaN(height) || math.IsInf(height, 0) {
		return Container{}, fmt.Errorf("width=%g height=%g: %w", width, height, ErrInvalidContainer)
	}
	c := Container{
		Height:      height,
		Width:       width,
		BottomLeft:  Vec2{X: left, Y: bottom},
		BottomRight: Vec2{X: left + width, Y: bottom},
	}
	c.setTop(height)
	return c, nil
}

// setTop moves the top edge so the fluid column is h tall.
func (c *Container) setTop(h float64) {
	c.TopLeft = Vec2{X: c.BottomLeft.X, Y: c.BottomLeft.Y + h}
	c.TopRight = Vec2{X: c.BottomRight.X, Y: c.BottomRight.Y + h}
}

// geometricHeight is the column height implied by the display quad.
func (c *Container) geometricHeight() float64 {
	return c.TopLeft.Y - c.BottomLeft.Y
}

type Constants struct {
	Density float64
	Gravity float64
}

func DefaultConstants() Constants {
	return Constants{Density: DefaultDensity, Gravity: DefaultGravity}
}

func (k Constants) Validate() error {
	for _, v := range []float64{k.Density, k.Gravity} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("density=%g gravity=%g: %w", k.Density, k.Gravity, ErrInvalidConstants)
		}
	}
	return nil
}

// PressureAt is the hydrostatic pressure under a column of height h.
func (k Constants) PressureAt(h float64) float64 {
	return h * k.Gravity * k.Density
}

// HeightFor is the column height that produces pressure p.
func (k Constants) HeightFor(p float64) float64 {
	return p / (k.Gravity * k.Density)
}

// Apparatus is the complete simulation state: two containers, the pressure
// applied by the piston, and the physical constants.
type Apparatus struct {
	Big     Container
	Small   Container
	Applied float64
	Constants

	// Tolerance is the pressure difference treated as balanced. Zero means
	// the sides must match exactly.
	Tolerance float64

	initial struct {
		big, small Container
		applied    float64
	}
}

func New(big, small Container, k Constants) (*Apparatus, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	a := &Apparatus{Big: big, Small: small, Constants: k}
	a.Big.Pressure = k.PressureAt(a.Big.Height)
	a.Small.Pressure = k.PressureAt(a.Small.Height)
	a.initial.big, a.initial.small = a.Big, a.Small
	return a, nil
}

// NewClassic returns the apparatus laid out in normalized device
// coordinates: a 0.5 wide container on the left and a 0.25 wide one on the
// right, both filled to 0.5 from a floor at y=-0.5.
func NewClassic() *Apparatus {
	big, _ := NewContainer(-0.75, -0.5, 0.5, 0.5)
	small, _ := NewContainer(0.5, -0.5, 0.25, 0.5)
	a, _ := New(big, small, DefaultConstants())
	return a
}

func (a *Apparatus) SetTolerance(tol float64) error {
	if tol < 0 || math.IsNaN(tol) {
		return fmt.Errorf("tolerance=%g: %w", tol, ErrInvalidTolerance)
	}
	a.Tolerance = tol
	return nil
}

// SetApplied sets the applied pressure and makes it part of the state
// Reset returns to.
func (a *Apparatus) SetApplied(p float64) {
	a.Applied = p
	a.initial.applied = p
}

// Reset restores the containers and applied pressure to their
// construction-time values.
func (a *Apparatus) Reset() {
	a.Big, a.Small = a.initial.big, a.initial.small
	a.Applied = a.initial.applied
}

// LevelGap is the difference in fluid level, big minus small.
func (a *Apparatus) LevelGap() float64 {
	return a.Big.Height - a.Small.Height
}

// PressureGap is the pressure pushing fluid from big to small.
func (a *Apparatus) PressureGap() float64 {
	return a.PressureAt(a.Big.Height) + a.Applied - a.PressureAt(a.Small.Height)
}

// Frame is an immutable snapshot of the apparatus after one step.
type Frame struct {
	Index         int
	BigHeight     float64
	SmallHeight   float64
	BigPressure   float64
	SmallPressure float64
	Applied       float64
	Outcome       Outcome
}

func (a *Apparatus) Snapshot() Frame {
	return Frame{
		BigHeight:     a.Big.Height,
		SmallHeight:   a.Small.Height,
		BigPressure:   a.PressureAt(a.Big.Height),
		SmallPressure: a.PressureAt(a.Small.Height),
		Applied:       a.Applied,
	}
}

// Values flattens the frame in the column order used by storage.
func (f Frame) Values() []float64 {
	return []float64{f.BigHeight, f.SmallHeight, f.BigPressure, f.SmallPressure, f.Applied}
}

// FrameColumns names the entries returned by Frame.Values.
var FrameColumns = []string{"big_height", "small_height", "big_pressure", "small_pressure", "applied"}

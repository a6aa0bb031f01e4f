package hydro

const (
	tubeHeight   = 0.02
	pistonHeight = 0.1
	rodHalfWidth = 0.01
	rodTop       = 1.0
)

// Quad is a filled quadrilateral in bottom-left, bottom-right, top-right,
// top-left order.
type Quad [4]Vec2

func (c Container) Quad() Quad {
	return Quad{c.BottomLeft, c.BottomRight, c.TopRight, c.TopLeft}
}

// Bounds returns the axis-aligned box around the quad.
func (q Quad) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = q[0].X, q[0].Y
	maxX, maxY = q[0].X, q[0].Y
	for _, p := range q[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return
}

// Scene is everything a renderer draws for one frame. It is derived from
// the container corners and never written back.
type Scene struct {
	Big         Quad
	Small       Quad
	Tube        Quad
	PistonPlate Quad
	PistonRod   Quad
}

func (a *Apparatus) Scene() Scene {
	bl, sl := a.Big.BottomRight, a.Small.BottomLeft
	up := Vec2{Y: tubeHeight}

	lift := Vec2{Y: pistonHeight}
	mid := (a.Big.TopLeft.X + a.Big.TopRight.X) / 2
	y := a.Big.TopLeft.Y

	return Scene{
		Big:   a.Big.Quad(),
		Small: a.Small.Quad(),
		Tube:  Quad{bl, sl, sl.Add(up), bl.Add(up)},
		PistonPlate: Quad{
			a.Big.TopLeft, a.Big.TopRight,
			a.Big.TopRight.Add(lift), a.Big.TopLeft.Add(lift),
		},
		PistonRod: Quad{
			{X: mid - rodHalfWidth, Y: y}, {X: mid + rodHalfWidth, Y: y},
			{X: mid + rodHalfWidth, Y: rodTop}, {X: mid - rodHalfWidth, Y: rodTop},
		},
	}
}

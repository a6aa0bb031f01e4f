package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/hydrosim/internal/hydro"
)

// Layer says what occupies a canvas cell. Piston wins over water, water
// over glass.
type Layer int

const (
	LayerEmpty Layer = iota
	LayerGlass
	LayerWater
	LayerPiston
)

// rim is the lowest top edge drawn for a vessel wall.
const rim = 0.5

// SceneCanvas rasterizes a hydro.Scene into braille layers so each cell
// can be colored by what it shows.
type SceneCanvas struct {
	Width, Height int
	glass         *Canvas
	water         *Canvas
	piston        *Canvas
}

func NewSceneCanvas(w, h int) *SceneCanvas {
	return &SceneCanvas{
		Width:  w,
		Height: h,
		glass:  NewCanvas(w, h),
		water:  NewCanvas(w, h),
		piston: NewCanvas(w, h),
	}
}

func (s *SceneCanvas) Draw(sc hydro.Scene) {
	s.glass.Clear()
	s.water.Clear()
	s.piston.Clear()

	s.drawVessel(sc.Big)
	s.drawVessel(sc.Small)

	s.water.FillQuad(sc.Big)
	s.water.FillQuad(sc.Small)
	s.water.FillQuad(sc.Tube)

	s.piston.FillQuad(sc.PistonPlate)
	s.piston.FillQuad(sc.PistonRod)
}

// vessel is the wall around a water column: same footprint, at least rim
// tall.
func vessel(q hydro.Quad) hydro.Quad {
	top := max(q[2].Y, q[3].Y, rim)
	return hydro.Quad{q[0], q[1], {X: q[2].X, Y: top}, {X: q[3].X, Y: top}}
}

// drawVessel outlines the wall and opens its top edge between the corners.
func (s *SceneCanvas) drawVessel(q hydro.Quad) {
	v := vessel(q)
	s.glass.OutlineQuad(v)

	x0, y := s.glass.Project(v[3])
	x1, _ := s.glass.Project(v[2])
	for x := x0 + 1; x < x1; x++ {
		s.glass.Unset(x, y)
	}
}

// Cell returns the merged glyph at a cell and the layer it is colored by.
func (s *SceneCanvas) Cell(row, col int) (rune, Layer) {
	g, w, p := s.glass.Grid[row][col], s.water.Grid[row][col], s.piston.Grid[row][col]
	switch {
	case p != blank:
		return g | w | p, LayerPiston
	case w != blank:
		return g | w, LayerWater
	case g != blank:
		return g, LayerGlass
	default:
		return blank, LayerEmpty
	}
}

// Render colors the canvas with th, grouping runs of equal layer into one
// styled span.
func (s *SceneCanvas) Render(th Theme) string {
	styles := map[Layer]lipgloss.Style{
		LayerEmpty:  lipgloss.NewStyle(),
		LayerGlass:  lipgloss.NewStyle().Foreground(th.Muted),
		LayerWater:  lipgloss.NewStyle().Foreground(th.Water),
		LayerPiston: lipgloss.NewStyle().Foreground(th.Piston),
	}

	var b strings.Builder
	var run strings.Builder
	for row := 0; row < s.Height; row++ {
		cur := LayerEmpty
		run.Reset()
		for col := 0; col < s.Width; col++ {
			r, layer := s.Cell(row, col)
			if layer != cur && run.Len() > 0 {
				b.WriteString(styles[cur].Render(run.String()))
				run.Reset()
			}
			cur = layer
			run.WriteRune(r)
		}
		if run.Len() > 0 {
			b.WriteString(styles[cur].Render(run.String()))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders without color.
func (s *SceneCanvas) String() string {
	var b strings.Builder
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			r, _ := s.Cell(row, col)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

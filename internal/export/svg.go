package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/hydrosim/internal/hydro"
)

const (
	background  = "#0a0a0a"
	waterColor  = "#2f80ed"
	pistonColor = "#9aa5b1"
)

// Point is one sample of a plotted series.
type Point struct {
	X, Y float64
}

func svgHeader(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// project maps normalized device coordinates onto an SVG viewport with y
// pointing down.
func project(p hydro.Vec2, width, height int) (float64, float64) {
	x := (p.X + 1) / 2 * float64(width)
	y := (1 - p.Y) / 2 * float64(height)
	return x, y
}

func polygon(sb *strings.Builder, q hydro.Quad, width, height int, fill string) {
	sb.WriteString(`<polygon fill="` + fill + `" points="`)
	for i, p := range q {
		x, y := project(p, width, height)
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}
	sb.WriteString("\"/>\n")
}

// SceneToSVG draws one frame of the apparatus as filled polygons.
func SceneToSVG(sc hydro.Scene, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	var sb strings.Builder
	svgHeader(&sb, width, height)

	sb.WriteString("<g id=\"water\">\n")
	for _, q := range []hydro.Quad{sc.Big, sc.Small, sc.Tube} {
		polygon(&sb, q, width, height, waterColor)
	}
	sb.WriteString("</g>\n<g id=\"piston\">\n")
	for _, q := range []hydro.Quad{sc.PistonPlate, sc.PistonRod} {
		polygon(&sb, q, width, height, pistonColor)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG creates an SVG polyline from series data. Each series
// shares the same bounds and is stroked with the matching color.
func TrajectoryToSVG(series [][]Point, colors []string, width, height int) string {
	if len(series) == 0 || len(series[0]) < 2 {
		return ""
	}

	minX, maxX := series[0][0].X, series[0][0].X
	minY, maxY := series[0][0].Y, series[0][0].Y
	for _, points := range series {
		for _, p := range points {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	svgHeader(&sb, width, height)

	for s, points := range series {
		if len(points) < 2 {
			continue
		}
		color := "#00ff00"
		if s < len(colors) {
			color = colors[s]
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i, p := range points {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)

			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// HeightsToSVG plots both container heights against the frame index.
func HeightsToSVG(frames []hydro.Frame, width, height int) string {
	big := make([]Point, len(frames))
	small := make([]Point, len(frames))
	for i, f := range frames {
		big[i] = Point{X: float64(f.Index), Y: f.BigHeight}
		small[i] = Point{X: float64(f.Index), Y: f.SmallHeight}
	}
	return TrajectoryToSVG([][]Point{big, small}, []string{waterColor, "#f2994a"}, width, height)
}

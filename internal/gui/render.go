package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/hydrosim/internal/hydro"
)

// toScreen maps the apparatus' [-1, 1] frame onto the window, y down.
func toScreen(p hydro.Vec2) rl.Vector2 {
	return rl.NewVector2(
		float32((p.X+1)/2*windowSize),
		float32((1-p.Y)/2*windowSize),
	)
}

// quadRect is the screen rectangle covering an axis-aligned quad.
func quadRect(q hydro.Quad) rl.Rectangle {
	minX, minY, maxX, maxY := q.Bounds()
	tl := toScreen(hydro.Vec2{X: minX, Y: maxY})
	br := toScreen(hydro.Vec2{X: maxX, Y: minY})
	return rl.NewRectangle(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
}

func (a *App) drawScene(sc hydro.Scene) {
	for _, q := range []hydro.Quad{sc.Big, sc.Small, sc.Tube} {
		rl.DrawRectangleRec(quadRect(q), ColWater)
	}

	if a.HasShader {
		rl.BeginShaderMode(a.Shader)
		defer rl.EndShaderMode()
	}
	rl.DrawRectangleRec(quadRect(sc.PistonPlate), ColPiston)
	rl.DrawRectangleRec(quadRect(sc.PistonRod), ColPiston)
}

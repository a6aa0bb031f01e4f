package gui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/control"
	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/sim"
)

const (
	windowSize    = 800
	maxTelemetry  = 200
	telemetryX    = 20
	telemetryY    = 700
	telemetryW    = 300
	telemetryH    = 60
	fontPath      = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	DefaultShader = "assets/shaders/piston.fs"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColWater   = rl.NewColor(51, 102, 230, 255)
	ColPiston  = rl.NewColor(204, 51, 51, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
)

type App struct {
	Name      string
	Sim       *sim.Simulator
	Manual    *control.Manual
	Frame     int
	Last      hydro.Frame
	Running   bool
	Telemetry []float64
	Font      rl.Font
	Shader    rl.Shader
	HasShader bool
	quit      bool
}

func initWindow(fps int) {
	rl.InitWindow(windowSize, windowSize, "Hydrodynamics")
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont falls back to raylib's built-in font when the system font is
// missing.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// loadShader loads the piston fragment shader if the file exists. A
// missing or broken shader leaves plain colors.
func loadShader(path string) (rl.Shader, bool) {
	if path == "" {
		return rl.Shader{}, false
	}
	if _, err := os.Stat(path); err != nil {
		log.Warn("shader not found, drawing without it", "path", path)
		return rl.Shader{}, false
	}
	shader := rl.LoadShader("", path)
	if shader.ID == 0 {
		log.Warn("shader failed to load, drawing without it", "path", path)
		return rl.Shader{}, false
	}
	return shader, true
}

func NewApp(name string, cfg *config.Config) (*App, error) {
	app, err := cfg.Apparatus()
	if err != nil {
		return nil, err
	}

	manual := control.NewManual(cfg.Step())
	a := &App{
		Name:      name,
		Sim:       sim.New(app, manual),
		Manual:    manual,
		Last:      app.Snapshot(),
		Running:   true,
		Telemetry: make([]float64, 0, maxTelemetry),
		Font:      loadFont(),
	}
	a.Last.Outcome = hydro.Balanced

	shaderPath := cfg.Shader
	if shaderPath == "" {
		shaderPath = DefaultShader
	}
	a.Shader, a.HasShader = loadShader(config.ResolveAsset(shaderPath))
	return a, nil
}

// Run opens the window and blocks until it is closed, Q is pressed, or
// ctx is done.
func Run(ctx context.Context, name string, cfg *config.Config) error {
	initWindow(cfg.FPS)
	defer rl.CloseWindow()

	app, err := NewApp(name, cfg)
	if err != nil {
		return err
	}
	defer app.Unload()

	app.RunLoop(ctx)
	return nil
}

func (a *App) RunLoop(ctx context.Context) {
	for !rl.WindowShouldClose() && !a.quit && ctx.Err() == nil {
		a.Update()
		a.Draw()
	}
}

func (a *App) Unload() {
	if a.HasShader {
		rl.UnloadShader(a.Shader)
	}
}

func held(key int32) bool {
	return rl.IsKeyPressed(key) || rl.IsKeyPressedRepeat(key)
}

// Update reads input and steps one frame.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
		return
	}
	if held(rl.KeySpace) {
		a.Manual.Press(1)
	}
	if held(rl.KeyLeftShift) {
		a.Manual.Press(-1)
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}

	if !a.Running {
		return
	}

	a.Frame++
	f, _ := a.Sim.Advance(a.Frame)
	if f.Outcome == hydro.Drained && a.Last.Outcome != hydro.Drained {
		log.Debug("underflow guard engaged", "frame", f.Index, "applied", f.Applied)
	}
	a.Last = f

	a.Telemetry = append(a.Telemetry, f.SmallHeight)
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) reset() {
	app := a.Sim.Apparatus()
	app.Reset()
	a.Manual.Compute(app, 0)
	a.Frame = 0
	a.Last = app.Snapshot()
	a.Last.Outcome = hydro.Balanced
	a.Telemetry = a.Telemetry[:0]
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawScene(a.Sim.Apparatus().Scene())
	a.DrawHUD()
	a.DrawTelemetry()

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawHUD() {
	app := a.Sim.Apparatus()

	a.drawText("hydrosim", 20, 20, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Name), 150, 24, 16, ColText)

	status, col := "FLOWING", ColSelect
	switch {
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	case a.Last.Outcome == hydro.Drained:
		status, col = "DRAINED", ColPiston
	case a.Last.Outcome == hydro.Balanced:
		status = "BALANCED"
	}
	a.drawText(status, 680, 20, 16, col)

	lines := []string{
		fmt.Sprintf("big     %.4f", app.Big.Height),
		fmt.Sprintf("small   %.4f", app.Small.Height),
		fmt.Sprintf("left P  %.3f", app.PressureAt(app.Big.Height)+app.Applied),
		fmt.Sprintf("right P %.3f", app.PressureAt(app.Small.Height)),
		fmt.Sprintf("applied %+.2f", app.Applied),
	}
	for i, l := range lines {
		a.drawText(l, 20, 60+i*20, 16, ColText)
	}

	a.drawText("[SPACE] PUSH  [SHIFT] PULL  [P] PAUSE  [R] RESET  [Q] QUIT", 340, 770, 12, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 20, 770, 12, ColTextDim)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(telemetryX) + (float32(i)/float32(len(a.Telemetry)))*float32(telemetryW)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(telemetryY+telemetryH) - float32(norm)*float32(telemetryH)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("small %.3f", a.Telemetry[len(a.Telemetry)-1]), telemetryX+telemetryW+10, telemetryY+telemetryH-10, 14, ColText)
}

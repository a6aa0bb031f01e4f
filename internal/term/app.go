package term

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/control"
	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/sim"
	"github.com/san-kum/hydrosim/internal/viz"
)

const (
	sceneWidth  = 40
	sceneHeight = 20
)

// App is the raw terminal frontend: one tcell screen, one apparatus.
type App struct {
	screen  tcell.Screen
	name    string
	cfg     *config.Config
	sim     *sim.Simulator
	manual  *control.Manual
	scene   *viz.SceneCanvas
	theme   viz.Theme
	tone    *Tone
	frame   int
	last    hydro.Frame
	running bool
}

// New wraps an initialized screen. tone may be nil.
func New(screen tcell.Screen, name string, cfg *config.Config, tone *Tone) (*App, error) {
	app, err := cfg.Apparatus()
	if err != nil {
		return nil, err
	}

	manual := control.NewManual(cfg.Step())
	a := &App{
		screen:  screen,
		name:    name,
		cfg:     cfg,
		sim:     sim.New(app, manual),
		manual:  manual,
		scene:   viz.NewSceneCanvas(sceneWidth, sceneHeight),
		theme:   viz.GetTheme(cfg.Theme),
		tone:    tone,
		last:    app.Snapshot(),
		running: true,
	}
	a.last.Outcome = hydro.Balanced
	return a, nil
}

// keyName spells a tcell key the way bubbletea does, so both frontends
// share one keymap.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		return string(ev.Rune())
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	}
	return ""
}

// HandleEvent applies one input event and reports whether to keep going.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch action := viz.KeyAction(keyName(ev)); action {
		case viz.ActionQuit:
			return false
		case viz.ActionIncrease, viz.ActionDecrease:
			a.manual.Press(action.Direction())
		case viz.ActionPause:
			a.running = !a.running
		case viz.ActionReset:
			a.reset()
		case viz.ActionTheme:
			a.theme = viz.NextTheme(a.theme.Name)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) Step() hydro.Frame {
	if !a.running {
		return a.last
	}
	prev := a.last.SmallHeight
	a.frame++
	f, _ := a.sim.Advance(a.frame)
	if f.Outcome == hydro.Drained && a.last.Outcome != hydro.Drained {
		log.Debug("underflow guard engaged", "frame", f.Index, "applied", f.Applied)
	}
	a.last = f
	a.tone.Update(f.SmallHeight, f.SmallHeight-prev)
	return f
}

func (a *App) reset() {
	app := a.sim.Apparatus()
	app.Reset()
	a.manual.Compute(app, 0)
	a.frame = 0
	a.last = app.Snapshot()
	a.last.Outcome = hydro.Balanced
}

func (a *App) Apparatus() *hydro.Apparatus { return a.sim.Apparatus() }

func (a *App) Frame() int { return a.frame }

func style(c lipgloss.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.GetColor(string(c)))
}

func (a *App) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (a *App) Draw() {
	a.screen.Clear()

	app := a.sim.Apparatus()
	a.scene.Draw(app.Scene())

	water, piston := style(a.theme.Water), style(a.theme.Piston)
	text, muted := style(a.theme.Text), style(a.theme.Muted)
	for row := 0; row < a.scene.Height; row++ {
		for col := 0; col < a.scene.Width; col++ {
			r, layer := a.scene.Cell(row, col)
			switch layer {
			case viz.LayerWater:
				a.screen.SetContent(col+1, row+1, r, nil, water)
			case viz.LayerPiston:
				a.screen.SetContent(col+1, row+1, r, nil, piston)
			case viz.LayerGlass:
				a.screen.SetContent(col+1, row+1, r, nil, muted)
			}
		}
	}

	x := sceneWidth + 4
	status := "FLOWING"
	switch {
	case !a.running:
		status = "PAUSED"
	case a.last.Outcome == hydro.Drained:
		status = "DRAINED"
	case a.last.Outcome == hydro.Balanced:
		status = "BALANCED"
	}

	lines := []string{
		a.name,
		status,
		"",
		fmt.Sprintf("frame    %d", a.frame),
		fmt.Sprintf("big      %.4f", app.Big.Height),
		fmt.Sprintf("small    %.4f", app.Small.Height),
		fmt.Sprintf("left P   %.3f", app.PressureAt(app.Big.Height)+app.Applied),
		fmt.Sprintf("right P  %.3f", app.PressureAt(app.Small.Height)),
		fmt.Sprintf("applied  %+.2f", app.Applied),
		viz.GaugeBar(app.Applied, 5, 16),
	}
	for i, l := range lines {
		a.drawText(x, 1+i, l, text)
	}
	a.drawText(x, len(lines)+2, "space/up push  down pull", muted)
	a.drawText(x, len(lines)+3, "p pause  r reset  q quit", muted)

	a.screen.Show()
}

// Run is the event loop: input on its own goroutine, stepping on a
// ticker, until quit or ctx is done.
func (a *App) Run(ctx context.Context) error {
	fps := a.cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.Step()
			a.Draw()
		}
	}
}

// Main opens the terminal, optionally the speaker, and runs until quit.
func Main(ctx context.Context, name string, cfg *config.Config, sound bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var tone *Tone
	if sound {
		tone, err = NewTone()
		if err != nil {
			// the view works without sound
			log.Warn("audio initialization failed", "err", err)
			tone = nil
		}
		defer tone.Close()
	}

	app, err := New(screen, name, cfg, tone)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

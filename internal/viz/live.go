package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/control"
	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/metrics"
	"github.com/san-kum/hydrosim/internal/sim"
)

const (
	canvasWidth     = 40
	canvasHeight    = 20
	historyCapacity = 600
	graphWidth      = 32
	targetStep      = 0.05
)

type TickMsg time.Time

// pilot merges queued key presses with the autopilot, if engaged.
type pilot struct {
	manual  *control.Manual
	pid     *control.PID
	engaged bool
}

func (p *pilot) Compute(a *hydro.Apparatus, frame int) []hydro.PressureEvent {
	events := p.manual.Compute(a, frame)
	if p.engaged {
		events = append(events, p.pid.Compute(a, frame)...)
	}
	return events
}

// Model is the live view of one apparatus.
type Model struct {
	name      string
	cfg       *config.Config
	sim       *sim.Simulator
	pilot     *pilot
	metrics   []sim.Metric
	frame     int
	last      hydro.Frame
	running   bool
	showHelp  bool
	theme     Theme
	styles    Styles
	scene     *SceneCanvas
	bigHist   []float64
	smallHist []float64
	applied   []float64
}

func NewModel(name string, cfg *config.Config) (Model, error) {
	app, err := cfg.Apparatus()
	if err != nil {
		return Model{}, err
	}

	p := cfg.GetControllerParams()
	pid := control.NewPID(p["kp"], p["ki"], p["kd"], p["target"])
	pid.Step = p["step"]

	pl := &pilot{
		manual:  control.NewManual(cfg.Step()),
		pid:     pid,
		engaged: cfg.Controller == "pid",
	}

	th := GetTheme(cfg.Theme)
	m := Model{
		name:      name,
		cfg:       cfg,
		sim:       sim.New(app, pl),
		pilot:     pl,
		metrics:   []sim.Metric{metrics.NewStability(), metrics.NewControlEffort()},
		last:      app.Snapshot(),
		running:   true,
		theme:     th,
		styles:    NewStyles(th),
		scene:     NewSceneCanvas(canvasWidth, canvasHeight),
		bigHist:   make([]float64, 0, historyCapacity),
		smallHist: make([]float64, 0, historyCapacity),
		applied:   make([]float64, 0, historyCapacity),
	}
	m.last.Outcome = hydro.Balanced
	m.startMetrics()
	return m, nil
}

func (m *Model) startMetrics() {
	for _, mt := range m.metrics {
		mt.Reset()
		if st, ok := mt.(sim.Starter); ok {
			st.Start(m.sim.Apparatus())
		}
	}
}

func (m Model) tick() tea.Cmd {
	fps := m.cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch action := KeyAction(msg.String()); action {
		case ActionQuit:
			return m, tea.Quit
		case ActionIncrease, ActionDecrease:
			m.pilot.manual.Press(action.Direction())
		case ActionPause:
			m.running = !m.running
		case ActionReset:
			m.reset()
		case ActionTheme:
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		case ActionAutopilot:
			m.pilot.engaged = !m.pilot.engaged
			m.pilot.pid.Reset()
			log.Debug("autopilot", "engaged", m.pilot.engaged, "target", m.pilot.pid.Target)
		case ActionTargetUp:
			m.nudgeTarget(targetStep)
		case ActionTargetDown:
			m.nudgeTarget(-targetStep)
		case ActionHelp:
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.frame++
	f, _ := m.sim.Advance(m.frame)
	if f.Outcome == hydro.Drained && m.last.Outcome != hydro.Drained {
		log.Debug("underflow guard engaged", "frame", f.Index, "applied", f.Applied)
	}
	m.last = f

	for _, mt := range m.metrics {
		mt.Observe(f)
	}

	m.bigHist = pushHistory(m.bigHist, f.BigHeight)
	m.smallHist = pushHistory(m.smallHist, f.SmallHeight)
	m.applied = pushHistory(m.applied, f.Applied)
}

// nudgeTarget moves the autopilot's target height.
func (m *Model) nudgeTarget(d float64) {
	target := m.pilot.pid.GetParams()["Target"] + d
	m.pilot.pid.SetParam("Target", target)
	log.Debug("autopilot target", "target", target)
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset restores the initial fill and pressure.
func (m *Model) reset() {
	app := m.sim.Apparatus()
	app.Reset()
	m.frame = 0
	m.last = app.Snapshot()
	m.last.Outcome = hydro.Balanced
	m.pilot.manual.Compute(app, 0)
	m.pilot.pid.Reset()
	m.startMetrics()
	m.bigHist = m.bigHist[:0]
	m.smallHist = m.smallHist[:0]
	m.applied = m.applied[:0]
}

// Apparatus exposes the simulated state.
func (m Model) Apparatus() *hydro.Apparatus { return m.sim.Apparatus() }

func (m Model) Frame() int { return m.frame }

func (m Model) Running() bool { return m.running }

func (m Model) Autopilot() bool { return m.pilot.engaged }

func (m Model) Theme() Theme { return m.theme }

func (m Model) status() string {
	switch {
	case !m.running:
		return m.styles.Paused.Render("PAUSED")
	case m.last.Outcome == hydro.Drained:
		return m.styles.Alert.Render("DRAINED")
	case m.last.Outcome == hydro.Balanced:
		return m.styles.Running.Render("BALANCED")
	default:
		return m.styles.Running.Render("FLOWING")
	}
}

func (m Model) View() string {
	app := m.sim.Apparatus()
	m.scene.Draw(app.Scene())
	canvasView := m.styles.Canvas.Render(m.scene.Render(m.theme))

	st := m.styles
	row := func(label, value string) string {
		return st.Label.Render(label) + st.Value.Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status())
	if m.pilot.engaged {
		s.WriteString("  " + st.Running.Render(fmt.Sprintf("AUTOPILOT → %.2f", m.pilot.pid.Target)))
	}
	s.WriteString("\n\n")

	if len(m.smallHist) > 1 {
		chart := asciigraph.PlotMany(
			[][]float64{m.bigHist, m.smallHist},
			asciigraph.Height(5),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("big / small height"),
		)
		s.WriteString(st.Graph.Render(chart) + "\n\n")
	}

	s.WriteString(row("Frame", fmt.Sprintf("%d", m.frame)))
	s.WriteString(row("Big", fmt.Sprintf("%.4f", app.Big.Height)))
	s.WriteString(row("Small", fmt.Sprintf("%.4f", app.Small.Height)))
	s.WriteString(row("Left P", fmt.Sprintf("%.3f", app.PressureAt(app.Big.Height)+app.Applied)))
	s.WriteString(row("Right P", fmt.Sprintf("%.3f", app.PressureAt(app.Small.Height))))
	s.WriteString(row("Applied", fmt.Sprintf("%+.2f %s", app.Applied, GaugeBar(app.Applied, 5, 16))))
	if n := m.pilot.manual.Pending(); n > 0 {
		s.WriteString(row("Queued", fmt.Sprintf("%d", n)))
	}
	for _, mt := range m.metrics {
		s.WriteString(row(mt.Name(), fmt.Sprintf("%.3f", mt.Value())))
	}
	if len(m.applied) > 0 {
		s.WriteString("\n" + st.KeyHint.Render("applied ") + SparklineChart(m.applied, graphWidth) + "\n")
	}

	s.WriteString(st.KeyHint.Render("\n" + Separator(21) + "\nSP/↑:Push ↓:Pull P:Pause\nR:Reset T:Theme A:Auto\n[ ]:Target ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Panel.Render(s.String()))

	if m.showHelp {
		return st.Help.Render(Intro+"\n\n"+helpKeys) + "\n\n" + mainView
	}
	return mainView
}

const helpKeys = `Space, Up, +     push the piston (raise pressure)
Down, -, Bksp    pull the piston (lower pressure)
P                pause / resume
R                reset to the initial fill
T                cycle themes
A                toggle the autopilot
[, ]             lower / raise the autopilot target
?                toggle this help
Q, Esc           quit`

// Run starts the live view and blocks until the user quits or ctx ends.
func Run(ctx context.Context, name string, cfg *config.Config) error {
	m, err := NewModel(name, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

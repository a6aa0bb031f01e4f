package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/hydrosim/internal/config"
)

var presetInfo = map[string]string{
	"classic":   "equal levels at rest",
	"pressed":   "piston pushed one unit",
	"lopsided":  "uneven fill finding level",
	"vacuum":    "piston pulled hard",
	"mercury":   "dense fluid",
	"moon":      "low gravity",
	"autopilot": "controller holds a level",
	"tolerant":  "balance within a tolerance",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// field is one editable number of the chosen preset.
type field struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
	step float64
}

var fields = []field{
	{"applied", func(c *config.Config) float64 { return c.Applied }, func(c *config.Config, v float64) { c.Applied = v }, 0.1},
	{"big", func(c *config.Config) float64 { return c.Big.Height }, func(c *config.Config, v float64) { c.Big.Height = v }, 0.05},
	{"small", func(c *config.Config) float64 { return c.Small.Height }, func(c *config.Config, v float64) { c.Small.Height = v }, 0.05},
	{"density", func(c *config.Config) float64 { return c.Density }, func(c *config.Config, v float64) { c.Density = v }, 0.1},
	{"gravity", func(c *config.Config) float64 { return c.Gravity }, func(c *config.Config, v float64) { c.Gravity = v }, 0.1},
	{"target", func(c *config.Config) float64 { return c.ControllerParams.Target }, func(c *config.Config, v float64) { c.ControllerParams.Target = v }, 0.05},
}

var (
	pickTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickAccent   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

type picker struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	fieldCursor   int
	editing       bool
	editBuf       string
	err           error
	live          Model
}

func NewPicker() *picker {
	return &picker{
		state:   stateMenu,
		presets: config.ListPresets(),
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.live.Update(msg)
		m.live = newLive.(Model)
		return m, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateConfig:
			return m.configKey(msg)
		}
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.fieldCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	f := fields[m.fieldCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				f.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += s
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%.2f", f.get(m.cfg))
	case "left", "h":
		f.set(m.cfg, f.get(m.cfg)-f.step)
	case "right", "l":
		f.set(m.cfg, f.get(m.cfg)+f.step)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (picker, tea.Cmd) {
	live, err := NewModel(m.selected, m.cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state = live, stateSim
	return m, m.live.Init()
}

func (m picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(pickKey.Render(pairs[i]) + pickDim.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render("HYDROSIM") + "\n    " + pickSub.Render("hydraulic press") + "\n    " + pickSub.Render(Separator(25)) + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickCursor.Render("▸"), pickSelected.Render(fmt.Sprintf("%-12s", name)), pickAccent.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", pickDim.Render(fmt.Sprintf("  %-12s", name)), pickDim.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m picker) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render(strings.ToUpper(m.selected)) + "\n    " + pickSub.Render(presetInfo[m.selected]) + "\n    " + pickSub.Render(Separator(25)) + "\n\n")
	for i, f := range fields {
		valStr := fmt.Sprintf("%8.3f", f.get(m.cfg))
		if m.editing && i == m.fieldCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", pickCursor.Render("▸"), pickSelected.Render(fmt.Sprintf("%-10s", f.name)), pickAccent.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", pickDim.Render(fmt.Sprintf("  %-10s", f.name)), pickDim.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker.
func RunInteractive(ctx context.Context) error {
	_, err := tea.NewProgram(NewPicker(), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

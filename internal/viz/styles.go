package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the lipgloss set derived from a Theme.
type Styles struct {
	Canvas  lipgloss.Style
	Panel   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Graph   lipgloss.Style
	KeyHint lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	Alert   lipgloss.Style
	Help    lipgloss.Style
}

func NewStyles(th Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Padding(1, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(th.Muted).
			Padding(1, 2).
			Width(44),
		Header:  lipgloss.NewStyle().Foreground(th.Water).Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(th.Muted).Width(12),
		Value:   lipgloss.NewStyle().Foreground(th.Text),
		Graph:   lipgloss.NewStyle().Foreground(th.Water).Padding(1, 0),
		KeyHint: lipgloss.NewStyle().Foreground(th.Muted).Italic(true),
		Running: lipgloss.NewStyle().Bold(true).Foreground(th.Success),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(th.Warning),
		Alert:   lipgloss.NewStyle().Bold(true).Foreground(th.Error),
		Help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Accent).
			Foreground(th.Text).
			Padding(1, 2),
	}
}

// GaugeBar renders a signed value around a center mark, filling toward
// the side of its sign. limit is the magnitude of a full half.
func GaugeBar(value, limit float64, width int) string {
	half := width / 2
	if half < 1 || limit <= 0 {
		return ""
	}

	n := int(value / limit * float64(half))
	if n > half {
		n = half
	}
	if n < -half {
		n = -half
	}

	left := strings.Repeat("░", half)
	right := strings.Repeat("░", half)
	if n < 0 {
		left = strings.Repeat("░", half+n) + strings.Repeat("█", -n)
	} else if n > 0 {
		right = strings.Repeat("█", n) + strings.Repeat("░", half-n)
	}
	return "[" + left + "│" + right + "]"
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	// most recent samples win
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var result strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		result.WriteRune(chars[idx])
	}
	return result.String()
}

func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}

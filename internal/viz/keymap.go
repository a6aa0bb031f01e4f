package viz

import "github.com/san-kum/hydrosim/internal/hydro"

type Action int

const (
	ActionNone Action = iota
	ActionIncrease
	ActionDecrease
	ActionPause
	ActionReset
	ActionTheme
	ActionAutopilot
	ActionHelp
	ActionQuit
	ActionTargetUp
	ActionTargetDown
)

var keymap = map[string]Action{
	" ":         ActionIncrease,
	"up":        ActionIncrease,
	"+":         ActionIncrease,
	"=":         ActionIncrease,
	"down":      ActionDecrease,
	"-":         ActionDecrease,
	"backspace": ActionDecrease,
	"p":         ActionPause,
	"r":         ActionReset,
	"t":         ActionTheme,
	"a":         ActionAutopilot,
	"]":         ActionTargetUp,
	"[":         ActionTargetDown,
	"?":         ActionHelp,
	"q":         ActionQuit,
	"ctrl+c":    ActionQuit,
	"esc":       ActionQuit,
}

// KeyAction maps a bubbletea key string to an action.
func KeyAction(key string) Action {
	return keymap[key]
}

// Direction is +1 or -1 for pressure actions, 0 otherwise.
func (a Action) Direction() int {
	switch a {
	case ActionIncrease:
		return 1
	case ActionDecrease:
		return -1
	}
	return 0
}

// Event returns the pressure event an action produces for a press of
// size step, and false for non-pressure actions.
func (a Action) Event(step hydro.PressureEvent) (hydro.PressureEvent, bool) {
	switch a.Direction() {
	case 1:
		return step, true
	case -1:
		return hydro.PressureEvent{Delta: -step.Delta}, true
	}
	return hydro.PressureEvent{}, false
}

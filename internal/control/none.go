package control

import "github.com/san-kum/hydrosim/internal/hydro"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(a *hydro.Apparatus, frame int) []hydro.PressureEvent {
	return nil
}

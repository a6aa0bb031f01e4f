package sim

import (
	"fmt"
	"io"

	"github.com/san-kum/hydrosim/internal/hydro"
)

// Progress is an Observer that prints a status line every Every frames.
type Progress struct {
	W     io.Writer
	Total int
	Every int
}

func (p *Progress) OnFrame(f hydro.Frame) {
	every := p.Every
	if every <= 0 {
		every = 100
	}
	if f.Index%every != 0 && f.Index != p.Total {
		return
	}
	fmt.Fprintf(p.W, "frame %d/%d  big %.3f  small %.3f  %s\n",
		f.Index, p.Total, f.BigHeight, f.SmallHeight, f.Outcome)
}

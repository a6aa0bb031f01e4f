package term

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/san-kum/hydrosim/internal/config"
)

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	app, err := New(screen, "test", config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return app, screen
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), " "},
		{tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), "p"},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "up"},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), "down"},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "esc"},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), "ctrl+c"},
	}

	for _, tt := range tests {
		if got := keyName(tt.ev); got != tt.want {
			t.Errorf("keyName = %q, want %q", got, tt.want)
		}
	}
}

func TestAppPressAndStep(t *testing.T) {
	app, _ := newTestApp(t)

	for i := 0; i < 10; i++ {
		if !app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)) {
			t.Fatal("space should not quit")
		}
	}
	app.Step()
	app.Draw()

	a := app.Apparatus()
	if math.Abs(a.Applied-1.0) > 1e-9 {
		t.Errorf("expected applied 1.0, got %f", a.Applied)
	}
	if a.Small.Height <= 0.5 {
		t.Errorf("small side should rise, got %f", a.Small.Height)
	}
}

func TestAppPauseReset(t *testing.T) {
	app, _ := newTestApp(t)

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	app.HandleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	app.Step()
	if app.Frame() != 0 {
		t.Error("paused app should not step")
	}

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	app.Step()
	if app.Frame() != 1 || app.Apparatus().Applied <= 0 {
		t.Errorf("expected one step with the queued push, frame %d applied %f", app.Frame(), app.Apparatus().Applied)
	}

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if app.Frame() != 0 || app.Apparatus().Applied != 0 || app.Apparatus().Small.Height != 0.5 {
		t.Error("reset should restore the initial state")
	}
}

func TestAppQuit(t *testing.T) {
	app, _ := newTestApp(t)
	if app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
	if app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("esc should quit")
	}
}

func TestAppRunCanceled(t *testing.T) {
	app, _ := newTestApp(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := app.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if app.Frame() == 0 {
		t.Error("expected the loop to step")
	}
}

func TestFlowStreamer(t *testing.T) {
	f := &flow{rate: sampleRate, freq: baseFreq}
	samples := make([][2]float64, 64)

	n, ok := f.Stream(samples)
	if n != 64 || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	for _, s := range samples {
		if s[0] != 0 || s[1] != 0 {
			t.Fatal("expected silence with no flow")
		}
	}

	f.set(0.5, fullFlow*2)
	if f.amp != maxAmp {
		t.Errorf("expected full volume, got %f", f.amp)
	}
	if f.freq <= baseFreq {
		t.Errorf("pitch should rise with the level, got %f", f.freq)
	}

	f.Stream(samples)
	loud := false
	for _, s := range samples {
		if math.Abs(s[0]) > maxAmp+1e-12 {
			t.Fatalf("sample %f exceeds amplitude", s[0])
		}
		if s[0] != 0 {
			loud = true
		}
	}
	if !loud {
		t.Error("expected sound while flowing")
	}
}

func TestNilToneIsSilent(t *testing.T) {
	var tone *Tone
	tone.Update(0.5, 0.1)
	tone.Close()
}

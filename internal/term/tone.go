package term

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	baseFreq   = 110.0
	maxAmp     = 0.25
	// level change per frame that plays at full volume
	fullFlow = 0.02
)

// flow is a sine whose pitch follows the small column and whose volume
// follows how fast water is moving. Fields are guarded by speaker.Lock.
type flow struct {
	rate  beep.SampleRate
	phase float64
	freq  float64
	amp   float64
}

func (f *flow) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := f.amp * math.Sin(2*math.Pi*f.phase)
		samples[i][0] = v
		samples[i][1] = v

		f.phase += f.freq / float64(f.rate)
		f.phase -= math.Floor(f.phase)
	}
	return len(samples), true
}

func (f *flow) Err() error { return nil }

// set maps a level and its per-frame change onto pitch and volume.
func (f *flow) set(level, delta float64) {
	f.freq = baseFreq * math.Pow(2, math.Max(0, math.Min(level, 2)))
	f.amp = math.Min(math.Abs(delta)/fullFlow, 1) * maxAmp
}

// Tone plays the flow sound through the speaker.
type Tone struct {
	stream *flow
}

// NewTone opens the speaker. Callers treat an error as "run silent".
func NewTone() (*Tone, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	t := &Tone{stream: &flow{rate: sampleRate, freq: baseFreq}}
	speaker.Play(t.stream)
	return t, nil
}

// Update follows the small column. A nil Tone is silent.
func (t *Tone) Update(level, delta float64) {
	if t == nil {
		return
	}
	speaker.Lock()
	t.stream.set(level, delta)
	speaker.Unlock()
}

func (t *Tone) Close() {
	if t == nil {
		return
	}
	speaker.Clear()
	speaker.Close()
}

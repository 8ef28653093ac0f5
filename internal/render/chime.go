package render

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"k8s.io/klog/v2"
)

const chimeSampleRate = beep.SampleRate(44100)

// Chime plays short tones. Audio is optional: when the speaker cannot be
// opened every call is a no-op.
type Chime struct {
	ready bool
}

// NewChime opens the default audio device
func NewChime() *Chime {
	if err := speaker.Init(chimeSampleRate, chimeSampleRate.N(time.Second/10)); err != nil {
		klog.V(1).InfoS("Audio unavailable", "err", err)
		return &Chime{}
	}
	return &Chime{ready: true}
}

// Ready reports whether tones will be audible
func (c *Chime) Ready() bool {
	return c != nil && c.ready
}

// Play sounds a sine tone and blocks until it ends
func (c *Chime) Play(freq float64, d time.Duration) {
	if !c.Ready() {
		return
	}
	sine, err := generators.SineTone(chimeSampleRate, freq)
	if err != nil {
		klog.V(1).InfoS("Bad tone", "freq", freq, "err", err)
		return
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(beep.Take(chimeSampleRate.N(d), sine), beep.Callback(func() {
		close(done)
	})))
	<-done
}

// Outcome plays a rising cue when the finish line was reached and a low
// one otherwise
func (c *Chime) Outcome(finished bool) {
	if finished {
		c.Play(660, 120*time.Millisecond)
		c.Play(880, 200*time.Millisecond)
		return
	}
	c.Play(220, 250*time.Millisecond)
}

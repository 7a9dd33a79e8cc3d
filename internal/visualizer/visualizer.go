// Package visualizer implements the audio-reactive painters: spectrum
// bars, waveform, circular ring and the particle field. Every instance
// owns its smoothed/physical state and advances it only when the render
// time moves forward, so re-rendering the same frame paints identical
// output.
package visualizer

import (
	"image/color"
	"math"

	"github.com/ivlev/promo2video/internal/audio"
	"github.com/ivlev/promo2video/internal/surface"
	"github.com/ivlev/promo2video/internal/timeline"
)

const (
	// defaultStep substitutes the elapsed time on the first frame and
	// after backward seeks, where no usable delta exists.
	defaultStep = 1.0 / 60
	// maxStep caps the simulation delta so a stalled frame does not
	// catapult the state.
	maxStep = 0.1
)

// Visualizer paints one frame from the current audio sample. A nil
// surface or a nil sample must be a no-op.
type Visualizer interface {
	Render(s surface.Surface, sample *audio.Sample, t float64)
}

// step is the shared render clock. It freezes state for repeated
// renders of the same time and normalizes odd deltas.
type step struct {
	lastT float64
	init  bool
}

// advance reports whether state may move and the clamped delta to move
// it by. The same t as the previous call keeps the state frozen.
func (c *step) advance(t float64) (float64, bool) {
	if !c.init {
		c.init = true
		c.lastT = t
		return defaultStep, true
	}
	if t == c.lastT {
		return 0, false
	}
	dt := t - c.lastT
	c.lastT = t
	if dt <= 0 || dt > maxStep {
		dt = defaultStep
	}
	return dt, true
}

// smoothFactor converts a responsiveness setting into a frame-rate
// independent exponential step. At 60 fps it equals the setting itself.
func smoothFactor(responsiveness, dt float64) float64 {
	return 1 - math.Pow(1-responsiveness, dt*60)
}

// bandTargets groups the frequency buffer into len(out) contiguous bins
// restricted to the [rangeStart,rangeEnd) fraction of the spectrum,
// averages each group and writes sensitivity-scaled values clamped to 1.
func bandTargets(freq []byte, rangeStart, rangeEnd, sensitivity float64, out []float64) {
	n := len(out)
	if n == 0 {
		return
	}
	if len(freq) == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	lo := int(float64(len(freq)) * rangeStart)
	hi := int(float64(len(freq)) * rangeEnd)
	if lo < 0 {
		lo = 0
	}
	if hi > len(freq) {
		hi = len(freq)
	}
	if hi <= lo {
		lo = 0
		hi = len(freq)
	}
	span := hi - lo
	for i := 0; i < n; i++ {
		from := lo + span*i/n
		to := lo + span*(i+1)/n
		if to <= from {
			to = from + 1
		}
		var sum float64
		for j := from; j < to; j++ {
			sum += float64(freq[j])
		}
		v := sum / float64(to-from) / 255 * sensitivity
		if v > 1 {
			v = 1
		}
		out[i] = v
	}
}

func lerpColor(a, b color.RGBA, p float64) color.RGBA {
	l := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*p))
	}
	return color.RGBA{l(a.R, b.R), l(a.G, b.G), l(a.B, b.B), l(a.A, b.A)}
}

// fadeColor scales a premultiplied color by a [0,1] opacity fraction.
func fadeColor(c color.RGBA, frac float64) color.RGBA {
	if frac >= 1 {
		return c
	}
	if frac <= 0 {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(float64(c.R)*frac + 0.5),
		G: uint8(float64(c.G)*frac + 0.5),
		B: uint8(float64(c.B)*frac + 0.5),
		A: uint8(float64(c.A)*frac + 0.5),
	}
}

// parseColor resolves a hex string with a fallback for empty or broken
// values, so a bad project color degrades instead of failing the layer.
func parseColor(s, fallback string) color.RGBA {
	if c, ok := timeline.ParseHexColor(s); ok {
		return c
	}
	c, _ := timeline.ParseHexColor(fallback)
	return c
}

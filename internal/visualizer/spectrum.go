package visualizer

import (
	"image/color"
	"math"

	"github.com/ivlev/promo2video/internal/audio"
	"github.com/ivlev/promo2video/internal/surface"
	"github.com/ivlev/promo2video/internal/timeline"
)

// Spectrum draws vertical frequency bars with falling peak caps inside
// the layer box (0,0)-(W,H).
type Spectrum struct {
	cfg   timeline.VisualizerConfig
	clock step

	heights []float64
	caps    []float64
	targets []float64

	base    color.RGBA
	grad    color.RGBA
	hasGrad bool
}

var _ Visualizer = (*Spectrum)(nil)

func NewSpectrum(cfg timeline.VisualizerConfig) *Spectrum {
	v := &Spectrum{}
	v.SetConfig(cfg)
	return v
}

// SetConfig swaps the options. A changed bar count reallocates the
// smoothing state on the next render.
func (v *Spectrum) SetConfig(cfg timeline.VisualizerConfig) {
	if cfg.BarCount <= 0 {
		cfg.BarCount = 32
	}
	if cfg.W <= 0 {
		cfg.W = 300
	}
	if cfg.H <= 0 {
		cfg.H = 150
	}
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = 1
	}
	if cfg.Responsiveness <= 0 || cfg.Responsiveness > 1 {
		cfg.Responsiveness = 0.65
	}
	if cfg.RangeStart < 0 {
		cfg.RangeStart = 0
	}
	if cfg.RangeEnd <= cfg.RangeStart || cfg.RangeEnd > 1 {
		cfg.RangeStart, cfg.RangeEnd = 0, 1
	}
	if cfg.BarSpacing < 0 {
		cfg.BarSpacing = 0
	}
	if cfg.CapFallSpeed <= 0 {
		cfg.CapFallSpeed = 0.5
	}
	v.cfg = cfg
	v.base = parseColor(cfg.Color, "#22d3ee")
	v.grad, v.hasGrad = timeline.ParseHexColor(cfg.Color2)
}

func (v *Spectrum) ensure() {
	if len(v.heights) != v.cfg.BarCount {
		v.heights = make([]float64, v.cfg.BarCount)
		v.caps = make([]float64, v.cfg.BarCount)
		v.targets = make([]float64, v.cfg.BarCount)
	}
}

func (v *Spectrum) Render(s surface.Surface, sample *audio.Sample, t float64) {
	if s == nil || sample == nil {
		return
	}
	v.ensure()
	if dt, moved := v.clock.advance(t); moved {
		v.update(sample, dt)
	}
	v.draw(s)
}

func (v *Spectrum) update(sample *audio.Sample, dt float64) {
	bandTargets(sample.Frequency, v.cfg.RangeStart, v.cfg.RangeEnd, v.cfg.Sensitivity, v.targets)
	f := smoothFactor(v.cfg.Responsiveness, dt)
	for i, target := range v.targets {
		v.heights[i] += (target - v.heights[i]) * f

		// The cap falls at constant speed and only resets upward when
		// the live bar catches it.
		v.caps[i] -= v.cfg.CapFallSpeed * dt
		if v.caps[i] < v.heights[i] {
			v.caps[i] = v.heights[i]
		}
	}
}

func (v *Spectrum) draw(s surface.Surface) {
	n := len(v.heights)
	if n == 0 {
		return
	}
	w, h := v.cfg.W, v.cfg.H
	slot := w / float64(n)
	bw := slot - v.cfg.BarSpacing
	if bw <= 0 {
		bw = slot * 0.8
	}
	capH := math.Max(2, h*0.012)

	for i, hv := range v.heights {
		x := float64(i) * slot
		col := v.barColor(i, n)

		if bh := hv * h; bh > 0.5 {
			s.FillRect(x, h-bh, bw, bh, col)
		}
		if cp := v.caps[i]; cp > 0.004 {
			cy := h - cp*h - capH
			if cy < 0 {
				cy = 0
			}
			s.FillRect(x, cy, bw, capH, col)
		}
	}
}

func (v *Spectrum) barColor(i, n int) color.RGBA {
	if !v.hasGrad || n <= 1 {
		return v.base
	}
	return lerpColor(v.base, v.grad, float64(i)/float64(n-1))
}

package visualizer

import (
	"image/color"
	"math"

	"github.com/ivlev/promo2video/internal/audio"
	"github.com/ivlev/promo2video/internal/surface"
	"github.com/ivlev/promo2video/internal/timeline"
)

// boostDecayPerFrame shrinks the beat amplitude multiplier back toward
// one; at 60 fps a beat fades out in roughly a third of a second.
const boostDecayPerFrame = 0.85

// Waveform draws the time-domain curve through a fixed number of
// resampled points inside the layer box (0,0)-(W,H).
type Waveform struct {
	cfg   timeline.VisualizerConfig
	clock step

	display []float64
	targets []float64
	boost   float64

	pts    []surface.Point
	smooth []surface.Point
	mirror []surface.Point

	base   color.RGBA
	second color.RGBA
}

var _ Visualizer = (*Waveform)(nil)

func NewWaveform(cfg timeline.VisualizerConfig) *Waveform {
	v := &Waveform{}
	v.SetConfig(cfg)
	return v
}

// SetConfig swaps the options. A changed sample count reallocates the
// smoothing state on the next render.
func (v *Waveform) SetConfig(cfg timeline.VisualizerConfig) {
	if cfg.SampleCount < 2 {
		cfg.SampleCount = 128
	}
	if cfg.W <= 0 {
		cfg.W = 300
	}
	if cfg.H <= 0 {
		cfg.H = 150
	}
	if cfg.LineWidth <= 0 {
		cfg.LineWidth = 2
	}
	if cfg.Smoothing < 0 || cfg.Smoothing >= 1 {
		cfg.Smoothing = 0.35
	}
	if cfg.BeatBoost < 0 {
		cfg.BeatBoost = 0
	}
	if cfg.Style == "" {
		cfg.Style = "line"
	}
	v.cfg = cfg
	v.base = parseColor(cfg.Color, "#a3e635")
	if sec, ok := timeline.ParseHexColor(cfg.Color2); ok {
		v.second = sec
	} else {
		v.second = v.base
	}
}

func (v *Waveform) ensure() {
	if len(v.display) != v.cfg.SampleCount {
		v.display = make([]float64, v.cfg.SampleCount)
		v.targets = make([]float64, v.cfg.SampleCount)
	}
}

func (v *Waveform) Render(s surface.Surface, sample *audio.Sample, t float64) {
	if s == nil || sample == nil {
		return
	}
	v.ensure()
	if dt, moved := v.clock.advance(t); moved {
		v.update(sample, dt)
	}
	v.draw(s)
}

func (v *Waveform) update(sample *audio.Sample, dt float64) {
	resampleWave(sample.TimeDomain, v.targets)
	f := smoothFactor(1-v.cfg.Smoothing, dt)
	for i, target := range v.targets {
		v.display[i] += (target - v.display[i]) * f
	}

	if sample.Beat && v.cfg.BeatBoost > 0 {
		v.boost = v.cfg.BeatBoost
	}
	v.boost *= math.Pow(boostDecayPerFrame, dt*60)
	if v.boost < 0.001 {
		v.boost = 0
	}
}

// resampleWave maps the byte waveform onto len(out) points in [-1,1].
func resampleWave(wave []byte, out []float64) {
	n := len(out)
	if n == 0 {
		return
	}
	if len(wave) == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	for i := range out {
		idx := 0
		if n > 1 {
			idx = i * (len(wave) - 1) / (n - 1)
		}
		out[i] = (float64(wave[idx]) - 128) / 128
	}
}

func (v *Waveform) draw(s surface.Surface) {
	n := len(v.display)
	if n == 0 {
		return
	}
	w, h := v.cfg.W, v.cfg.H
	cy := h / 2
	amp := (cy - v.cfg.LineWidth) * (1 + v.boost)

	v.pts = v.pts[:0]
	for i, val := range v.display {
		x := float64(i) / float64(n-1) * w
		dy := val * amp
		if dy > cy {
			dy = cy
		} else if dy < -cy {
			dy = -cy
		}
		v.pts = append(v.pts, surface.Point{X: x, Y: cy - dy})
	}

	pts := v.pts
	if v.cfg.CatmullRom && (v.cfg.Style == "line" || v.cfg.Style == "mirrored" || v.cfg.Style == "filled") {
		v.smooth = catmullRom(v.pts, 4, v.smooth[:0])
		pts = v.smooth
	}

	switch v.cfg.Style {
	case "filled":
		v.mirror = append(v.mirror[:0], pts...)
		v.mirror = append(v.mirror, surface.Point{X: w, Y: h}, surface.Point{X: 0, Y: h})
		s.FillPolygon(v.mirror, v.base)
	case "mirrored":
		s.StrokePolyline(pts, v.cfg.LineWidth, false, v.base)
		v.mirror = v.mirror[:0]
		for _, p := range pts {
			v.mirror = append(v.mirror, surface.Point{X: p.X, Y: 2*cy - p.Y})
		}
		s.StrokePolyline(v.mirror, v.cfg.LineWidth, false, v.second)
	case "bars":
		bw := w / float64(n) * 0.6
		if bw < 1 {
			bw = 1
		}
		for _, p := range v.pts {
			top, bh := p.Y, cy-p.Y
			if bh < 0 {
				top, bh = cy, -bh
			}
			if bh < 0.5 {
				bh = 0.5
			}
			s.FillRect(p.X-bw/2, top, bw, bh, v.base)
		}
	case "dots":
		r := math.Max(1.5, v.cfg.LineWidth)
		for _, p := range v.pts {
			s.FillCircle(p.X, p.Y, r, v.base)
		}
	default: // "line"
		s.StrokePolyline(pts, v.cfg.LineWidth, false, v.base)
	}
}

// catmullRom subdivides the polyline with a uniform Catmull-Rom spline,
// sub extra points per segment. Endpoints are preserved.
func catmullRom(pts []surface.Point, sub int, out []surface.Point) []surface.Point {
	n := len(pts)
	if n < 3 || sub < 1 {
		return append(out, pts...)
	}
	at := func(i int) surface.Point {
		if i < 0 {
			i = 0
		}
		if i >= n {
			i = n - 1
		}
		return pts[i]
	}
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		out = append(out, p1)
		for j := 1; j <= sub; j++ {
			t := float64(j) / float64(sub+1)
			t2 := t * t
			t3 := t2 * t
			out = append(out, surface.Point{
				X: 0.5 * (2*p1.X + (p2.X-p0.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (3*p1.X-p0.X-3*p2.X+p3.X)*t3),
				Y: 0.5 * (2*p1.Y + (p2.Y-p0.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (3*p1.Y-p0.Y-3*p2.Y+p3.Y)*t3),
			})
		}
	}
	return append(out, pts[n-1])
}

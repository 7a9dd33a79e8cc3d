package visualizer

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/ivlev/promo2video/internal/audio"
	"github.com/ivlev/promo2video/internal/surface"
	"github.com/ivlev/promo2video/internal/timeline"
)

const (
	sparkCap     = 256
	sparkDamping = 1.5 // velocity loss per second
)

type spark struct {
	x, y    float64
	vx, vy  float64
	life    int
	maxLife int
}

// Circular draws frequency bars around a slowly rotating ring centered
// in the layer box. Beats pulse the ring radius outward and, when the
// burst option is on, shoot a handful of sparks off tangentially.
type Circular struct {
	cfg   timeline.VisualizerConfig
	clock step
	rng   *rand.Rand

	values  []float64
	targets []float64
	rot     float64
	pulse   float64
	sparks  []spark

	seg [2]surface.Point

	base    color.RGBA
	grad    color.RGBA
	hasGrad bool
}

var _ Visualizer = (*Circular)(nil)

func NewCircular(cfg timeline.VisualizerConfig) *Circular {
	v := &Circular{rng: rand.New(rand.NewSource(1))}
	v.SetConfig(cfg)
	return v
}

// SetConfig swaps the options. A changed bar count reallocates the
// smoothing state on the next render.
func (v *Circular) SetConfig(cfg timeline.VisualizerConfig) {
	if cfg.BarCount <= 0 {
		cfg.BarCount = 48
	}
	if cfg.W <= 0 {
		cfg.W = 300
	}
	if cfg.H <= 0 {
		cfg.H = 300
	}
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = 1
	}
	if cfg.Responsiveness <= 0 || cfg.Responsiveness > 1 {
		cfg.Responsiveness = 0.6
	}
	if cfg.RangeStart < 0 {
		cfg.RangeStart = 0
	}
	if cfg.RangeEnd <= cfg.RangeStart || cfg.RangeEnd > 1 {
		cfg.RangeStart, cfg.RangeEnd = 0, 1
	}
	if cfg.Radius <= 0 || cfg.Radius > 1 {
		cfg.Radius = 0.55
	}
	if cfg.BarLength <= 0 || cfg.BarLength > 1 {
		cfg.BarLength = 0.35
	}
	if cfg.BarWidth <= 0 {
		cfg.BarWidth = 3
	}
	if cfg.RotateSpeed == 0 {
		cfg.RotateSpeed = 0.25
	}
	if cfg.PulseAmount <= 0 {
		cfg.PulseAmount = 0.18
	}
	if cfg.PulseDecay <= 0 || cfg.PulseDecay >= 1 {
		cfg.PulseDecay = 0.86
	}
	if cfg.BurstCount <= 0 {
		cfg.BurstCount = 14
	}
	v.cfg = cfg
	v.base = parseColor(cfg.Color, "#f472b6")
	v.grad, v.hasGrad = timeline.ParseHexColor(cfg.Color2)
}

func (v *Circular) ensure() {
	if len(v.values) != v.cfg.BarCount {
		v.values = make([]float64, v.cfg.BarCount)
		v.targets = make([]float64, v.cfg.BarCount)
	}
}

func (v *Circular) Render(s surface.Surface, sample *audio.Sample, t float64) {
	if s == nil || sample == nil {
		return
	}
	v.ensure()
	if dt, moved := v.clock.advance(t); moved {
		v.update(sample, dt)
	}
	v.draw(s)
}

func (v *Circular) update(sample *audio.Sample, dt float64) {
	bandTargets(sample.Frequency, v.cfg.RangeStart, v.cfg.RangeEnd, v.cfg.Sensitivity, v.targets)
	f := smoothFactor(v.cfg.Responsiveness, dt)
	for i, target := range v.targets {
		v.values[i] += (target - v.values[i]) * f
	}

	v.rot += v.cfg.RotateSpeed * dt

	if sample.Beat {
		v.pulse = v.cfg.PulseAmount
		if v.cfg.Burst {
			v.emitSparks()
		}
	}
	v.pulse *= math.Pow(v.cfg.PulseDecay, dt*60)
	if v.pulse < 1e-4 {
		v.pulse = 0
	}

	v.stepSparks(dt)
}

func (v *Circular) baseRadius() float64 {
	return v.cfg.Radius * math.Min(v.cfg.W, v.cfg.H) / 2
}

func (v *Circular) emitSparks() {
	cx, cy := v.cfg.W/2, v.cfg.H/2
	r := v.baseRadius()
	for i := 0; i < v.cfg.BurstCount; i++ {
		if len(v.sparks) >= sparkCap {
			return
		}
		ang := v.rng.Float64() * 2 * math.Pi
		sin, cos := math.Sincos(ang)
		speed := 80 + v.rng.Float64()*140
		// Velocity is tangential, along the rotation direction.
		v.sparks = append(v.sparks, spark{
			x:       cx + cos*r,
			y:       cy + sin*r,
			vx:      -sin * speed,
			vy:      cos * speed,
			life:    20 + v.rng.Intn(25),
			maxLife: 44,
		})
	}
}

func (v *Circular) stepSparks(dt float64) {
	alive := v.sparks[:0]
	damp := 1 - sparkDamping*dt
	if damp < 0 {
		damp = 0
	}
	for _, sp := range v.sparks {
		sp.life--
		if sp.life <= 0 {
			continue
		}
		sp.vx *= damp
		sp.vy *= damp
		sp.x += sp.vx * dt
		sp.y += sp.vy * dt
		alive = append(alive, sp)
	}
	v.sparks = alive
}

func (v *Circular) draw(s surface.Surface) {
	n := len(v.values)
	if n == 0 {
		return
	}
	cx, cy := v.cfg.W/2, v.cfg.H/2
	radius := v.baseRadius() * (1 + v.pulse)
	maxLen := v.cfg.BarLength * math.Min(v.cfg.W, v.cfg.H) / 2

	for i, val := range v.values {
		ang := v.rot + 2*math.Pi*float64(i)/float64(n)
		sin, cos := math.Sincos(ang)
		outer := radius + 2 + val*maxLen
		v.seg[0] = surface.Point{X: cx + cos*radius, Y: cy + sin*radius}
		v.seg[1] = surface.Point{X: cx + cos*outer, Y: cy + sin*outer}
		s.StrokePolyline(v.seg[:], v.cfg.BarWidth, false, v.barColor(i, n))
	}

	for _, sp := range v.sparks {
		frac := float64(sp.life) / float64(sp.maxLife)
		s.FillCircle(sp.x, sp.y, 2, fadeColor(v.base, frac))
	}
}

func (v *Circular) barColor(i, n int) color.RGBA {
	if !v.hasGrad || n <= 1 {
		return v.base
	}
	return lerpColor(v.base, v.grad, float64(i)/float64(n-1))
}

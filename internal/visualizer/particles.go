package visualizer

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/ivlev/promo2video/internal/audio"
	"github.com/ivlev/promo2video/internal/surface"
	"github.com/ivlev/promo2video/internal/timeline"
)

type particle struct {
	x, y    float64
	vx, vy  float64
	size    float64
	life    int
	maxLife int
	col     color.RGBA
}

// Particles is the continuous-emission particle field. Emission scales
// with the overall audio envelope, beats add a burst, and every live
// particle integrates gravity, turbulence, attraction, friction and an
// optional boundary bounce. Life is counted in simulation steps and a
// particle fades linearly with its remaining-life fraction.
type Particles struct {
	cfg   timeline.ParticleConfig
	clock step
	rng   *rand.Rand

	parts   []particle
	emitAcc float64
	colors  []color.RGBA
}

var _ Visualizer = (*Particles)(nil)

func NewParticles(cfg timeline.ParticleConfig) *Particles {
	v := &Particles{}
	v.SetConfig(cfg)
	return v
}

// SetConfig swaps the options and reseeds the generator, so two
// instances configured identically replay identical fields.
func (v *Particles) SetConfig(cfg timeline.ParticleConfig) {
	if cfg.W <= 0 {
		cfg.W = 300
	}
	if cfg.H <= 0 {
		cfg.H = 300
	}
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = 200
	}
	if cfg.EmissionRate < 0 {
		cfg.EmissionRate = 0
	}
	if cfg.BeatBurst < 0 {
		cfg.BeatBurst = 0
	}
	if cfg.SizeMin <= 0 {
		cfg.SizeMin = 2
	}
	if cfg.SizeMax < cfg.SizeMin {
		cfg.SizeMax = cfg.SizeMin
	}
	if cfg.SpeedMin < 0 {
		cfg.SpeedMin = 0
	}
	if cfg.SpeedMax < cfg.SpeedMin {
		cfg.SpeedMax = cfg.SpeedMin
	}
	if cfg.LifeMin <= 0 {
		cfg.LifeMin = 40
	}
	if cfg.LifeMax < cfg.LifeMin {
		cfg.LifeMax = cfg.LifeMin
	}
	if cfg.Friction < 0 {
		cfg.Friction = 0
	} else if cfg.Friction > 1 {
		cfg.Friction = 1
	}
	if cfg.BounceLoss < 0 {
		cfg.BounceLoss = 0
	} else if cfg.BounceLoss > 1 {
		cfg.BounceLoss = 1
	}
	if cfg.Region == "" {
		cfg.Region = "full"
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if len(cfg.Colors) == 0 {
		cfg.Colors = []string{"#ffffff"}
	}
	v.cfg = cfg
	v.rng = rand.New(rand.NewSource(cfg.Seed))
	v.colors = v.colors[:0]
	for _, s := range cfg.Colors {
		v.colors = append(v.colors, parseColor(s, "#ffffff"))
	}
}

func (v *Particles) Render(s surface.Surface, sample *audio.Sample, t float64) {
	if s == nil || sample == nil {
		return
	}
	if dt, moved := v.clock.advance(t); moved {
		v.update(sample, dt)
	}
	v.draw(s)
}

func (v *Particles) update(sample *audio.Sample, dt float64) {
	// Emission rate follows the audio envelope; fractional births carry
	// over so low rates still emit eventually.
	v.emitAcc += v.cfg.EmissionRate * sample.Average * dt
	births := int(v.emitAcc)
	v.emitAcc -= float64(births)
	if sample.Beat {
		births += v.cfg.BeatBurst
	}
	for i := 0; i < births; i++ {
		if len(v.parts) >= v.cfg.MaxParticles {
			break
		}
		v.parts = append(v.parts, v.spawn())
	}

	friction := math.Pow(1-v.cfg.Friction, dt*60)
	alive := v.parts[:0]
	for _, p := range v.parts {
		// One simulation step: life goes down by exactly one and the
		// particle disappears the step it reaches zero.
		p.life--
		if p.life <= 0 {
			continue
		}

		p.vy += v.cfg.Gravity * dt
		if v.cfg.Turbulence > 0 {
			p.vx += (v.rng.Float64()*2 - 1) * v.cfg.Turbulence * dt
			p.vy += (v.rng.Float64()*2 - 1) * v.cfg.Turbulence * dt
		}
		if v.cfg.Attraction != 0 {
			ax := v.cfg.AttractX*v.cfg.W - p.x
			ay := v.cfg.AttractY*v.cfg.H - p.y
			if d := math.Hypot(ax, ay); d > 1 {
				p.vx += ax / d * v.cfg.Attraction * dt
				p.vy += ay / d * v.cfg.Attraction * dt
			}
		}
		p.vx *= friction
		p.vy *= friction
		p.x += p.vx * dt
		p.y += p.vy * dt

		if v.cfg.Bounce {
			v.bounce(&p)
		}
		alive = append(alive, p)
	}
	v.parts = alive
}

func (v *Particles) bounce(p *particle) {
	keep := 1 - v.cfg.BounceLoss
	if p.x < 0 {
		p.x, p.vx = -p.x, -p.vx*keep
	} else if p.x > v.cfg.W {
		p.x, p.vx = 2*v.cfg.W-p.x, -p.vx*keep
	}
	if p.y < 0 {
		p.y, p.vy = -p.y, -p.vy*keep
	} else if p.y > v.cfg.H {
		p.y, p.vy = 2*v.cfg.H-p.y, -p.vy*keep
	}
}

func (v *Particles) spawn() particle {
	speed := v.cfg.SpeedMin + v.rng.Float64()*(v.cfg.SpeedMax-v.cfg.SpeedMin)
	var x, y, ang float64
	switch v.cfg.Region {
	case "bottom":
		x, y = v.rng.Float64()*v.cfg.W, v.cfg.H
		// Upward cone.
		ang = -math.Pi/2 + (v.rng.Float64()*2-1)*0.5
	case "center":
		x, y = v.cfg.W/2, v.cfg.H/2
		ang = v.rng.Float64() * 2 * math.Pi
	default:
		x, y = v.rng.Float64()*v.cfg.W, v.rng.Float64()*v.cfg.H
		ang = v.rng.Float64() * 2 * math.Pi
	}
	sin, cos := math.Sincos(ang)
	life := v.cfg.LifeMin
	if v.cfg.LifeMax > v.cfg.LifeMin {
		life += v.rng.Intn(v.cfg.LifeMax - v.cfg.LifeMin + 1)
	}
	return particle{
		x:       x,
		y:       y,
		vx:      cos * speed,
		vy:      sin * speed,
		size:    v.cfg.SizeMin + v.rng.Float64()*(v.cfg.SizeMax-v.cfg.SizeMin),
		life:    life,
		maxLife: life,
		col:     v.colors[v.rng.Intn(len(v.colors))],
	}
}

func (v *Particles) draw(s surface.Surface) {
	for _, p := range v.parts {
		frac := float64(p.life) / float64(p.maxLife)
		s.FillCircle(p.x, p.y, p.size, fadeColor(p.col, frac))
	}
}

// Count reports the live population, used by tests and the stats report.
func (v *Particles) Count() int { return len(v.parts) }

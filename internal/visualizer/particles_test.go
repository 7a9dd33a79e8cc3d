package visualizer

import (
	"strconv"
	"strings"
	"testing"

	"github.com/ivlev/promo2video/internal/timeline"
)

func TestParticlePopulationNeverExceedsCap(t *testing.T) {
	v := NewParticles(timeline.ParticleConfig{
		MaxParticles: 10,
		EmissionRate: 10000,
		BeatBurst:    50,
		LifeMin:      100,
		LifeMax:      200,
	})
	loud := flatSample(255, 1)

	tt := 0.0
	for i := 0; i < 120; i++ {
		sample := loud
		if i%7 == 0 {
			sample = beat(loud)
		}
		render(v, sample, tt)
		if v.Count() > 10 {
			t.Fatalf("Population %d exceeds the cap on frame %d", v.Count(), i)
		}
		tt += 1.0 / 60
	}
	if v.Count() == 0 {
		t.Error("Expected a saturated field")
	}
}

func TestParticleLifeCountsDownToRemoval(t *testing.T) {
	v := NewParticles(timeline.ParticleConfig{
		MaxParticles: 50,
		EmissionRate: 0,
		BeatBurst:    3,
		LifeMin:      5,
		LifeMax:      5,
	})
	quiet := flatSample(0, 0)

	tt := 0.0
	step := 1.0 / 60
	render(v, quiet, tt)
	tt += step

	render(v, beat(quiet), tt)
	tt += step
	if v.Count() != 3 {
		t.Fatalf("Expected 3 particles after the burst, got %d", v.Count())
	}

	// Life 5 at spawn, minus one on the spawn step: three more frames
	// alive, gone on the fourth.
	for i := 0; i < 3; i++ {
		render(v, quiet, tt)
		tt += step
		if v.Count() != 3 {
			t.Fatalf("Expected 3 particles on frame %d, got %d", i, v.Count())
		}
	}
	render(v, quiet, tt)
	if v.Count() != 0 {
		t.Errorf("Expected all particles removed, got %d", v.Count())
	}
}

func TestParticleReplayIsDeterministic(t *testing.T) {
	cfg := timeline.ParticleConfig{
		MaxParticles: 60,
		EmissionRate: 300,
		BeatBurst:    10,
		Turbulence:   120,
		Gravity:      80,
		Seed:         7,
	}
	a := NewParticles(cfg)
	b := NewParticles(cfg)
	loud := flatSample(220, 0.9)

	tt := 0.0
	for i := 0; i < 90; i++ {
		sample := loud
		if i%13 == 0 {
			sample = beat(loud)
		}
		oa := render(a, sample, tt)
		ob := render(b, sample, tt)
		if !opsEqual(oa, ob) {
			t.Fatalf("Replay diverged on frame %d", i)
		}
		tt += 1.0 / 60
	}
	if a.Count() == 0 {
		t.Error("Expected live particles after the run")
	}
}

func TestParticleSameTimeIsFrozen(t *testing.T) {
	v := NewParticles(timeline.ParticleConfig{EmissionRate: 500})
	loud := flatSample(255, 1)
	render(v, loud, 0)
	render(v, loud, 0.1)
	n := v.Count()
	a := render(v, loud, 0.1)
	b := render(v, loud, 0.1)
	if v.Count() != n {
		t.Errorf("Population moved on a repeated frame: %d then %d", n, v.Count())
	}
	if !opsEqual(a, b) {
		t.Error("Expected identical paint for the same time")
	}
}

func TestParticleSilenceEmitsNothing(t *testing.T) {
	v := NewParticles(timeline.ParticleConfig{EmissionRate: 400})
	quiet := flatSample(0, 0)
	tt := 0.0
	for i := 0; i < 30; i++ {
		render(v, quiet, tt)
		tt += 1.0 / 60
	}
	if v.Count() != 0 {
		t.Errorf("Expected an empty field in silence, got %d", v.Count())
	}
}

func TestParticleBounceKeepsFieldInBox(t *testing.T) {
	v := NewParticles(timeline.ParticleConfig{
		W: 100, H: 100,
		MaxParticles: 40,
		EmissionRate: 200,
		Gravity:      600,
		SpeedMin:     100,
		SpeedMax:     300,
		LifeMin:      200,
		LifeMax:      300,
		Bounce:       true,
		BounceLoss:   0.3,
	})
	loud := flatSample(255, 1)

	tt := 0.0
	var ops []string
	for i := 0; i < 180; i++ {
		ops = render(v, loud, tt)
		tt += 1.0 / 60
	}
	for _, op := range ops {
		if !strings.HasPrefix(op, "fillCircle") {
			continue
		}
		fields := strings.Fields(op)
		x, _ := strconv.ParseFloat(fields[1], 64)
		y, _ := strconv.ParseFloat(fields[2], 64)
		if x < -10 || x > 110 || y < -10 || y > 110 {
			t.Fatalf("Particle escaped the box: %q", op)
		}
	}
}

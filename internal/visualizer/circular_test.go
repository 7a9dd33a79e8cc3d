package visualizer

import (
	"testing"

	"github.com/ivlev/promo2video/internal/timeline"
)

func TestCircularRotates(t *testing.T) {
	v := NewCircular(timeline.VisualizerConfig{BarCount: 12, W: 200, H: 200})
	loud := flatSample(255, 1)

	a := render(v, loud, 0)
	b := render(v, loud, 0.5)
	if opsEqual(a, b) {
		t.Error("Expected the ring to rotate between frames")
	}
	if got := countPrefix(a, "strokePolyline"); got != 12 {
		t.Errorf("Expected 12 bars, got %d", got)
	}
}

func TestCircularPulseDecaysAfterBeat(t *testing.T) {
	cfg := timeline.VisualizerConfig{BarCount: 8, W: 200, H: 200, PulseAmount: 0.3}
	plain := NewCircular(cfg)
	pulsed := NewCircular(cfg)
	loud := flatSample(200, 1)

	tt := 0.0
	step := 1.0 / 60
	for i := 0; i < 30; i++ {
		render(plain, loud, tt)
		render(pulsed, loud, tt)
		tt += step
	}

	a := render(plain, loud, tt)
	b := render(pulsed, beat(loud), tt)
	tt += step
	if opsEqual(a, b) {
		t.Fatal("Expected the beat to pulse the ring radius")
	}

	var pa, pb []string
	for i := 0; i < 240; i++ {
		pa = render(plain, loud, tt)
		pb = render(pulsed, loud, tt)
		tt += step
	}
	if !opsEqual(pa, pb) {
		t.Error("Expected the pulse to decay geometrically to zero")
	}
}

func TestCircularBurstSparksExpire(t *testing.T) {
	v := NewCircular(timeline.VisualizerConfig{
		BarCount: 8, W: 200, H: 200, Burst: true, BurstCount: 6,
	})
	loud := flatSample(200, 1)

	tt := 0.0
	step := 1.0 / 60
	for i := 0; i < 10; i++ {
		render(v, loud, tt)
		tt += step
	}

	ops := render(v, beat(loud), tt)
	tt += step
	if got := countPrefix(ops, "fillCircle"); got != 6 {
		t.Fatalf("Expected 6 sparks on the beat frame, got %d", got)
	}

	// Spark lifetimes top out below a second of frames.
	for i := 0; i < 60; i++ {
		ops = render(v, loud, tt)
		tt += step
	}
	if got := countPrefix(ops, "fillCircle"); got != 0 {
		t.Errorf("Expected all sparks expired, got %d", got)
	}
}

func TestCircularSameTimeIsFrozen(t *testing.T) {
	v := NewCircular(timeline.VisualizerConfig{BarCount: 8})
	loud := flatSample(255, 1)
	render(v, loud, 0)
	a := render(v, loud, 0.2)
	b := render(v, loud, 0.2)
	if !opsEqual(a, b) {
		t.Error("Expected identical paint for the same time")
	}
}

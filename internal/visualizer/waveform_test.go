package visualizer

import (
	"math"
	"testing"

	"github.com/ivlev/promo2video/internal/surface"
	"github.com/ivlev/promo2video/internal/timeline"
)

func TestWaveformStyles(t *testing.T) {
	sample := sineSample(180)
	cases := []struct {
		style  string
		prefix string
		want   int
	}{
		{"line", "strokePolyline", 1},
		{"filled", "fillPolygon", 1},
		{"mirrored", "strokePolyline", 2},
		{"bars", "fillRect", 32},
		{"dots", "fillCircle", 32},
	}
	for _, tc := range cases {
		t.Run(tc.style, func(t *testing.T) {
			v := NewWaveform(timeline.VisualizerConfig{
				Style:       tc.style,
				SampleCount: 32,
				W:           320,
				H:           120,
			})
			ops := render(v, sample, 0)
			if got := countPrefix(ops, tc.prefix); got != tc.want {
				t.Errorf("Expected %d %q ops, got %d (all: %d)", tc.want, tc.prefix, got, len(ops))
			}
		})
	}
}

func TestWaveformBeatBoostDecaysBackToBase(t *testing.T) {
	cfg := timeline.VisualizerConfig{SampleCount: 64, W: 320, H: 120, BeatBoost: 0.6}
	plain := NewWaveform(cfg)
	boosted := NewWaveform(cfg)
	sample := sineSample(180)

	tt := 0.0
	step := 1.0 / 60
	for i := 0; i < 30; i++ {
		render(plain, sample, tt)
		render(boosted, sample, tt)
		tt += step
	}

	a := render(plain, sample, tt)
	b := render(boosted, beat(sample), tt)
	tt += step
	if opsEqual(a, b) {
		t.Fatal("Expected the beat frame to draw with boosted amplitude")
	}

	// The multiplier decays back and the smoothed samples converge, so
	// after a few quiet seconds both instances paint identically again.
	var pa, pb []string
	for i := 0; i < 240; i++ {
		pa = render(plain, sample, tt)
		pb = render(boosted, sample, tt)
		tt += step
	}
	if !opsEqual(pa, pb) {
		t.Error("Expected the boost to fully decay")
	}
}

func TestWaveformSameTimeIsFrozen(t *testing.T) {
	v := NewWaveform(timeline.VisualizerConfig{SampleCount: 32})
	sample := sineSample(150)
	render(v, sample, 0)
	a := render(v, sample, 0.1)
	b := render(v, sample, 0.1)
	if !opsEqual(a, b) {
		t.Errorf("Expected identical paint for the same time")
	}
}

func TestCatmullRomPreservesEndpoints(t *testing.T) {
	in := []surface.Point{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: -5}, {X: 30, Y: 0}}
	out := catmullRom(in, 2, nil)

	wantLen := 3*(1+2) + 1
	if len(out) != wantLen {
		t.Fatalf("Expected %d points, got %d", wantLen, len(out))
	}
	if out[0].X != 0 || out[0].Y != 0 {
		t.Errorf("First point moved: %v", out[0])
	}
	last := out[len(out)-1]
	if last.X != 30 || last.Y != 0 {
		t.Errorf("Last point moved: %v", last)
	}
}

func TestResampleWave(t *testing.T) {
	wave := make([]byte, 256)
	for i := range wave {
		wave[i] = byte(i)
	}
	out := make([]float64, 4)
	resampleWave(wave, out)

	wantIdx := []int{0, 85, 170, 255}
	for i, idx := range wantIdx {
		want := (float64(byte(idx)) - 128) / 128
		if math.Abs(out[i]-want) > 1e-9 {
			t.Errorf("Point %d: expected %v, got %v", i, want, out[i])
		}
	}
}

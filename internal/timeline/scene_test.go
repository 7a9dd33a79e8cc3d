package timeline

import (
	"math"
	"testing"
)

// Scenario from the animation contract: duration 10s, one layer with
// opacity 0->1 over [0s,1s] and x 0->500 over [0s,2s], linear easing.
func buildAnimatedScene() (*Scene, *Layer) {
	s := NewScene(1280, 720, 30, 10)
	l := NewLayer("hero", TypeShape)
	l.Start, l.End = 0, 10
	l.AddKeyframe("opacity", Keyframe{Time: 0, Value: Number(0), Easing: "linear"})
	l.AddKeyframe("opacity", Keyframe{Time: 1, Value: Number(1), Easing: "linear"})
	l.AddKeyframe("x", Keyframe{Time: 0, Value: Number(0), Easing: "linear"})
	l.AddKeyframe("x", Keyframe{Time: 2, Value: Number(500), Easing: "linear"})
	s.AddLayer(l)
	return s, l
}

func TestEvaluateExampleScenario(t *testing.T) {
	_, l := buildAnimatedScene()

	if v := l.Evaluate("opacity", 0.5); math.Abs(v.Num-0.5) > 1e-9 {
		t.Errorf("opacity at 0.5s = %v, expected 0.5", v.Num)
	}
	if v := l.Evaluate("x", 1); math.Abs(v.Num-250) > 1e-9 {
		t.Errorf("x at 1s = %v, expected 250", v.Num)
	}
	// At t=5s both tracks sit on their final keyframe values.
	if v := l.Evaluate("opacity", 5); v.Num != 1 {
		t.Errorf("opacity at 5s = %v, expected 1", v.Num)
	}
	if v := l.Evaluate("x", 5); v.Num != 500 {
		t.Errorf("x at 5s = %v, expected 500", v.Num)
	}
}

func TestSetTimeResolvesLayers(t *testing.T) {
	s, l := buildAnimatedScene()

	s.SetTime(0.5)
	if math.Abs(l.Opacity-0.5) > 1e-9 {
		t.Errorf("Resolved opacity = %v, expected 0.5", l.Opacity)
	}
	if math.Abs(l.Transform.X-125) > 1e-9 {
		t.Errorf("Resolved x = %v, expected 125", l.Transform.X)
	}

	// Untracked transform fields keep their values.
	if l.Transform.ScaleX != 1 || l.Transform.AnchorX != 0.5 {
		t.Errorf("Untracked fields changed: %+v", l.Transform)
	}
}

func TestSetTimeClamps(t *testing.T) {
	s, _ := buildAnimatedScene()

	s.SetTime(-3)
	if s.Time() != 0 {
		t.Errorf("Time clamped low = %v, expected 0", s.Time())
	}
	s.SetTime(42)
	if s.Time() != 10 {
		t.Errorf("Time clamped high = %v, expected 10", s.Time())
	}
}

func TestEvaluatedValueWinsOverManualWrite(t *testing.T) {
	s, l := buildAnimatedScene()

	// A manual write to a tracked property survives only until the next
	// evaluation pass.
	l.Transform.X = 9999
	l.Opacity = 0.123
	s.SetTime(1)

	if l.Transform.X != 250 {
		t.Errorf("Tracked x = %v after SetTime, expected evaluated 250", l.Transform.X)
	}
	if l.Opacity != 1 {
		t.Errorf("Tracked opacity = %v after SetTime, expected evaluated 1", l.Opacity)
	}

	// A manual write to an untracked property is authoritative.
	l.Transform.Rotation = 1.5
	s.SetTime(2)
	if l.Transform.Rotation != 1.5 {
		t.Errorf("Untracked rotation = %v, expected manual 1.5", l.Transform.Rotation)
	}
}

func TestDefaultsWithoutTracks(t *testing.T) {
	l := NewLayer("plain", TypeShape)
	l.BaseOpacity = 0.7

	if v := l.Evaluate("opacity", 3); v.Num != 0.7 {
		t.Errorf("Default opacity = %v, expected base 0.7", v.Num)
	}
	if v := l.Evaluate("x", 3); v.Num != 0 {
		t.Errorf("Default x = %v, expected 0", v.Num)
	}
	if v := l.Evaluate("scaleX", 3); v.Num != 1 {
		t.Errorf("Default scaleX = %v, expected 1", v.Num)
	}
	if v := l.Evaluate("anchorY", 3); v.Num != 0.5 {
		t.Errorf("Default anchorY = %v, expected 0.5", v.Num)
	}
	if v := l.Evaluate("rotation", 3); v.Num != 0 {
		t.Errorf("Default rotation = %v, expected 0", v.Num)
	}
}

func TestActiveWindow(t *testing.T) {
	l := NewLayer("clip", TypeImage)
	l.Start, l.End = 2, 8
	l.TrimIn, l.TrimOut = 0.5, 1

	tests := []struct {
		time   float64
		active bool
	}{
		{0, false},
		{2.4, false}, // before start+trimIn
		{2.5, true},  // exactly start+trimIn
		{5, true},
		{7, true},  // exactly end-trimOut
		{7.1, false},
		{9, false},
	}

	for _, tt := range tests {
		if got := l.ActiveAt(tt.time); got != tt.active {
			t.Errorf("ActiveAt(%v) = %v, expected %v", tt.time, got, tt.active)
		}
	}

	l.Hidden = true
	if l.ActiveAt(5) {
		t.Error("Hidden layer must never be active")
	}
}

func TestActiveLayersOrder(t *testing.T) {
	s := NewScene(1280, 720, 24, 10)

	bg := NewLayer("background", TypeBackground)
	bg.ZIndex = 0
	bg.Start, bg.End = 0, 10

	shape := NewLayer("shape", TypeShape)
	shape.ZIndex = 5
	shape.Start, shape.End = 0, 10

	// Added out of paint order on purpose.
	s.AddLayer(shape)
	s.AddLayer(bg)

	for _, tt := range []float64{0, 3.7, 10} {
		active := s.ActiveLayers(tt)
		if len(active) != 2 {
			t.Fatalf("Expected 2 active layers at %v, got %d", tt, len(active))
		}
		if active[0].ID != "background" || active[1].ID != "shape" {
			t.Errorf("At %v expected [background shape], got [%s %s]", tt, active[0].ID, active[1].ID)
		}
	}
}

func TestActiveLayersTieBreak(t *testing.T) {
	s := NewScene(640, 360, 30, 5)
	for _, id := range []string{"a", "b", "c"} {
		l := NewLayer(id, TypeShape)
		l.ZIndex = 3
		l.End = 5
		s.AddLayer(l)
	}

	active := s.ActiveLayers(1)
	if len(active) != 3 {
		t.Fatalf("Expected 3 active layers, got %d", len(active))
	}
	for i, id := range []string{"a", "b", "c"} {
		if active[i].ID != id {
			t.Errorf("Tie break broken: position %d = %s, expected %s", i, active[i].ID, id)
		}
	}
}

package timeline

import (
	"math"
	"testing"
)

func TestInsertKeepsOrder(t *testing.T) {
	tr := &PropertyTrack{}
	tr.Insert(Keyframe{Time: 2, Value: Number(2)})
	tr.Insert(Keyframe{Time: 0, Value: Number(0)})
	tr.Insert(Keyframe{Time: 1, Value: Number(1)})

	keys := tr.Keyframes()
	if len(keys) != 3 {
		t.Fatalf("Expected 3 keyframes, got %d", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i].Time <= keys[i-1].Time {
			t.Errorf("Keyframes out of order at %d: %v <= %v", i, keys[i].Time, keys[i-1].Time)
		}
	}
}

func TestInsertReplacesAtSameTime(t *testing.T) {
	tr := &PropertyTrack{}
	tr.Insert(Keyframe{Time: 1, Value: Number(10)})
	tr.Insert(Keyframe{Time: 1, Value: Number(99)})

	if tr.Len() != 1 {
		t.Fatalf("Expected 1 keyframe after replacement, got %d", tr.Len())
	}
	v, _ := tr.Evaluate(1)
	if v.Num != 99 {
		t.Errorf("Expected replaced value 99, got %v", v.Num)
	}
}

func TestEvaluateBoundaryClamp(t *testing.T) {
	tr := &PropertyTrack{}
	tr.Insert(Keyframe{Time: 1, Value: Number(100)})
	tr.Insert(Keyframe{Time: 3, Value: Number(300)})

	tests := []struct {
		time     float64
		expected float64
	}{
		{-5, 100}, // well before first
		{1, 100},  // exactly first
		{3, 300},  // exactly last
		{99, 300}, // well after last
	}

	for _, tt := range tests {
		v, ok := tr.Evaluate(tt.time)
		if !ok {
			t.Fatalf("Evaluate(%v) reported empty track", tt.time)
		}
		if v.Num != tt.expected {
			t.Errorf("Evaluate(%v) = %v, expected %v (no extrapolation)", tt.time, v.Num, tt.expected)
		}
	}
}

func TestEvaluateEmpty(t *testing.T) {
	tr := &PropertyTrack{}
	if _, ok := tr.Evaluate(0); ok {
		t.Error("Empty track should report ok=false")
	}
}

func TestEvaluateLinearSegment(t *testing.T) {
	tr := &PropertyTrack{}
	tr.Insert(Keyframe{Time: 0, Value: Number(0), Easing: "linear"})
	tr.Insert(Keyframe{Time: 2, Value: Number(500), Easing: "linear"})

	v, _ := tr.Evaluate(1)
	if v.Num != 250 {
		t.Errorf("Expected exact linear 250 at midpoint, got %v", v.Num)
	}

	// Interpolated values stay inside the keyframe value range.
	for i := 0; i <= 20; i++ {
		tt := float64(i) / 10
		v, _ := tr.Evaluate(tt)
		if v.Num < 0 || v.Num > 500 {
			t.Errorf("Evaluate(%v) = %v out of [0,500]", tt, v.Num)
		}
	}
}

func TestEvaluateEasingOnSecondKeyframe(t *testing.T) {
	// The easing function named on the segment's second keyframe is the
	// one applied to its progress.
	tr := &PropertyTrack{}
	tr.Insert(Keyframe{Time: 0, Value: Number(0), Easing: "easeOutExpo"})
	tr.Insert(Keyframe{Time: 1, Value: Number(1), Easing: "easeInQuad"})

	v, _ := tr.Evaluate(0.5)
	if math.Abs(v.Num-0.25) > 1e-9 {
		t.Errorf("Expected easeInQuad(0.5)=0.25, got %v", v.Num)
	}
}

func TestEvaluateUnknownEasingFallsBack(t *testing.T) {
	tr := &PropertyTrack{}
	tr.Insert(Keyframe{Time: 0, Value: Number(0)})
	tr.Insert(Keyframe{Time: 1, Value: Number(100), Easing: "wobbly"})

	v, _ := tr.Evaluate(0.5)
	if v.Num != 50 {
		t.Errorf("Unknown easing should act linear, got %v", v.Num)
	}
}

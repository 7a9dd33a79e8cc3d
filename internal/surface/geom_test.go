package surface

import (
	"image/color"
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMatrixComposeOrder(t *testing.T) {
	// Rotation is appended last, so it has to apply first.
	tm := identity().mul(translation(10, 0)).mul(rotation(math.Pi / 2))
	x, y := tm.apply(1, 0)
	if !almost(x, 10) || !almost(y, 1) {
		t.Errorf("Expected (10,1), got (%v,%v)", x, y)
	}
}

func TestMatrixScaleAndTranslate(t *testing.T) {
	tm := identity().mul(scaling(2, 3))
	x, y := tm.apply(2, 2)
	if !almost(x, 4) || !almost(y, 6) {
		t.Errorf("Expected (4,6), got (%v,%v)", x, y)
	}

	tm = identity().mul(translation(-5, 7))
	x, y = tm.apply(1, 1)
	if !almost(x, -4) || !almost(y, 8) {
		t.Errorf("Expected (-4,8), got (%v,%v)", x, y)
	}
}

func TestRotationPointsDownward(t *testing.T) {
	// y grows downward, so a positive quarter turn maps +x onto +y.
	x, y := rotation(math.Pi/2).apply(5, 0)
	if !almost(x, 0) || !almost(y, 5) {
		t.Errorf("Expected (0,5), got (%v,%v)", x, y)
	}
}

func TestArcEndpoints(t *testing.T) {
	pts := appendArc(nil, 0, 0, 5, -math.Pi/2, 0, 8)
	if len(pts) != 9 {
		t.Fatalf("Expected 9 points, got %d", len(pts))
	}
	first, last := pts[0], pts[len(pts)-1]
	if !almost(first.X, 0) || !almost(first.Y, -5) {
		t.Errorf("Arc start = (%v,%v), expected (0,-5)", first.X, first.Y)
	}
	if !almost(last.X, 5) || !almost(last.Y, 0) {
		t.Errorf("Arc end = (%v,%v), expected (5,0)", last.X, last.Y)
	}
}

func TestRoundedRectStaysInBounds(t *testing.T) {
	pts := appendRoundedRect(nil, 10, 20, 100, 50, 8)
	if len(pts) != 4*(cornerSegments+1) {
		t.Fatalf("Expected %d points, got %d", 4*(cornerSegments+1), len(pts))
	}
	const eps = 1e-9
	for _, p := range pts {
		if p.X < 10-eps || p.X > 110+eps || p.Y < 20-eps || p.Y > 70+eps {
			t.Fatalf("Point (%v,%v) escapes the rectangle", p.X, p.Y)
		}
	}
}

func TestScaleAlpha(t *testing.T) {
	got := scaleAlpha(color.RGBA{200, 100, 50, 255}, 0.5)
	want := color.RGBA{100, 50, 25, 128}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if got := scaleAlpha(color.RGBA{10, 10, 10, 10}, 1); got != (color.RGBA{10, 10, 10, 10}) {
		t.Errorf("Full alpha must not change the color, got %v", got)
	}
	if got := scaleAlpha(color.RGBA{255, 255, 255, 255}, 0); got != (color.RGBA{}) {
		t.Errorf("Zero alpha must produce a transparent color, got %v", got)
	}
}

func TestReversePoints(t *testing.T) {
	pts := []Point{{1, 1}, {2, 2}, {3, 3}}
	reversePoints(pts)
	if pts[0].X != 3 || pts[2].X != 1 {
		t.Errorf("Expected reversed order, got %v", pts)
	}
}

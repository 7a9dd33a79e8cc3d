package surface

import (
	"image"
	"image/color"
	"math"
	"testing"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func pixel(c *Canvas, x, y int) color.RGBA {
	return c.Image().RGBAAt(x, y)
}

func channelsNear(got, want color.RGBA, tol int) bool {
	d := func(a, b uint8) int {
		v := int(a) - int(b)
		if v < 0 {
			v = -v
		}
		return v
	}
	return d(got.R, want.R) <= tol && d(got.G, want.G) <= tol &&
		d(got.B, want.B) <= tol && d(got.A, want.A) <= tol
}

func TestYAxisPointsDown(t *testing.T) {
	c := NewCanvas(20, 20, nil)
	c.Clear(black)
	c.FillRect(0, 0, 20, 5, white)

	if got := pixel(c, 10, 2); got != white {
		t.Errorf("Expected white in the top band, got %v", got)
	}
	if got := pixel(c, 10, 15); got != black {
		t.Errorf("Expected black below the band, got %v", got)
	}
}

func TestFillRectPlacement(t *testing.T) {
	c := NewCanvas(20, 20, nil)
	c.Clear(black)
	c.FillRect(5, 5, 10, 10, red)

	if got := pixel(c, 10, 10); got != red {
		t.Errorf("Expected red inside, got %v", got)
	}
	for _, p := range [][2]int{{2, 2}, {17, 17}, {10, 2}} {
		if got := pixel(c, p[0], p[1]); got != black {
			t.Errorf("Expected black at %v, got %v", p, got)
		}
	}
}

func TestClearDropsPendingShapes(t *testing.T) {
	c := NewCanvas(20, 20, nil)
	c.Clear(black)
	c.FillRect(0, 0, 20, 20, white)
	c.Clear(black)
	if got := pixel(c, 10, 10); got != black {
		t.Errorf("Expected cleared frame, got %v", got)
	}
}

func TestAlphaHalvesFill(t *testing.T) {
	c := NewCanvas(20, 20, nil)
	c.Clear(black)
	c.SetAlpha(0.5)
	c.FillRect(0, 0, 20, 20, white)

	got := pixel(c, 10, 10)
	if !channelsNear(got, color.RGBA{128, 128, 128, 255}, 3) {
		t.Errorf("Expected ~50%% gray, got %v", got)
	}
}

func TestTransformStack(t *testing.T) {
	c := NewCanvas(20, 20, nil)
	c.Clear(black)
	c.Push()
	c.Translate(10, 10)
	c.Rotate(math.Pi / 2)
	c.FillRect(2, -1, 6, 2, white)
	c.Pop()

	// Local +x turns into screen +y: the bar stands below the center.
	if got := pixel(c, 10, 15); got != white {
		t.Errorf("Expected white below center, got %v", got)
	}
	if got := pixel(c, 15, 10); got != black {
		t.Errorf("Expected black right of center, got %v", got)
	}

	// After Pop the transform is gone.
	c.FillRect(0, 0, 4, 4, red)
	if got := pixel(c, 2, 2); got != red {
		t.Errorf("Expected untransformed rect at origin, got %v", got)
	}
}

func TestStrokeCircleKeepsHole(t *testing.T) {
	c := NewCanvas(40, 40, nil)
	c.Clear(black)
	c.StrokeCircle(20, 20, 10, 4, white)

	if got := pixel(c, 30, 20); got != white {
		t.Errorf("Expected white on the ring, got %v", got)
	}
	if got := pixel(c, 20, 20); got != black {
		t.Errorf("Expected black in the hole, got %v", got)
	}
	if got := pixel(c, 24, 20); got != black {
		t.Errorf("Expected black inside the inner radius, got %v", got)
	}
	if got := pixel(c, 35, 20); got != black {
		t.Errorf("Expected black outside the ring, got %v", got)
	}
}

func TestStrokePolylineCoversSegment(t *testing.T) {
	c := NewCanvas(20, 20, nil)
	c.Clear(black)
	c.StrokePolyline([]Point{{5, 10}, {15, 10}}, 4, false, white)

	if got := pixel(c, 10, 10); got != white {
		t.Errorf("Expected white on the line, got %v", got)
	}
	if got := pixel(c, 10, 16); got != black {
		t.Errorf("Expected black away from the line, got %v", got)
	}
}

func TestDrawImageScales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetRGBA(x, y, blue)
		}
	}

	c := NewCanvas(20, 20, nil)
	c.Clear(black)
	c.DrawImage(src, 4, 4, 12, 12)

	if got := pixel(c, 10, 10); !channelsNear(got, blue, 1) {
		t.Errorf("Expected blue inside the blit, got %v", got)
	}
	if got := pixel(c, 2, 2); got != black {
		t.Errorf("Expected black outside the blit, got %v", got)
	}
}

func TestDrawImageRoundedClipsCorner(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, white)
		}
	}

	c := NewCanvas(40, 40, nil)
	c.Clear(black)
	c.DrawImageRounded(src, 10, 10, 20, 20, 8)

	if got := pixel(c, 20, 20); !channelsNear(got, white, 1) {
		t.Errorf("Expected white in the middle, got %v", got)
	}
	if got := pixel(c, 11, 11); got != black {
		t.Errorf("Expected the corner clipped away, got %v", got)
	}
	if got := pixel(c, 20, 12); !channelsNear(got, white, 1) {
		t.Errorf("Expected the straight edge kept, got %v", got)
	}
}

func TestZeroAlphaSkipsDrawing(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, white)

	c := NewCanvas(10, 10, nil)
	c.Clear(black)
	c.SetAlpha(0)
	c.FillRect(0, 0, 10, 10, white)
	c.FillCircle(5, 5, 4, white)
	c.DrawImage(src, 0, 0, 10, 10)

	if got := pixel(c, 5, 5); got != black {
		t.Errorf("Expected nothing drawn at zero alpha, got %v", got)
	}
}

func TestImageFlushesPendingVectors(t *testing.T) {
	c := NewCanvas(10, 10, nil)
	c.Clear(black)
	c.FillRect(0, 0, 10, 10, red)
	// Image() itself must rasterize the batch.
	if got := c.Image().RGBAAt(5, 5); got != red {
		t.Errorf("Expected flushed rect, got %v", got)
	}
}

func TestDegenerateInputsAreNoOps(t *testing.T) {
	c := NewCanvas(10, 10, nil)
	c.Clear(black)
	c.FillRect(2, 2, 0, 5, white)
	c.FillRect(2, 2, 5, -1, white)
	c.FillCircle(5, 5, 0, white)
	c.StrokeCircle(5, 5, 3, 0, white)
	c.StrokePolyline([]Point{{1, 1}}, 2, false, white)
	c.FillPolygon([]Point{{1, 1}, {2, 2}}, white)
	c.DrawImage(nil, 0, 0, 5, 5)
	c.DrawText("ignored", 1, 1, TextStyle{Color: white})

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if got := pixel(c, x, y); got != black {
				t.Fatalf("Expected untouched frame, got %v at (%d,%d)", got, x, y)
			}
		}
	}
}

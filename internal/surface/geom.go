package surface

import (
	"image/color"
	"math"
)

// matrix is a 2x3 affine transform:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type matrix struct {
	a, b, c, d, e, f float64
}

func identity() matrix { return matrix{a: 1, d: 1} }

func translation(dx, dy float64) matrix { return matrix{a: 1, d: 1, e: dx, f: dy} }

func scaling(sx, sy float64) matrix { return matrix{a: sx, d: sy} }

func rotation(rad float64) matrix {
	sin, cos := math.Sincos(rad)
	return matrix{a: cos, b: sin, c: -sin, d: cos}
}

// mul composes m with n so that n is applied first. Chaining
// Translate/Rotate/Scale therefore nests like canvas transforms do.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

const cornerSegments = 8

// appendArc appends segs+1 points along a circular arc, both endpoints
// included. Angles follow the screen convention (y down).
func appendArc(dst []Point, cx, cy, r, from, to float64, segs int) []Point {
	for i := 0; i <= segs; i++ {
		t := from + (to-from)*float64(i)/float64(segs)
		dst = append(dst, Point{cx + r*math.Cos(t), cy + r*math.Sin(t)})
	}
	return dst
}

func appendCircle(dst []Point, cx, cy, r float64, segs int) []Point {
	for i := 0; i < segs; i++ {
		t := 2 * math.Pi * float64(i) / float64(segs)
		dst = append(dst, Point{cx + r*math.Cos(t), cy + r*math.Sin(t)})
	}
	return dst
}

func appendRoundedRect(dst []Point, x, y, w, h, r float64) []Point {
	dst = appendArc(dst, x+w-r, y+r, r, -math.Pi/2, 0, cornerSegments)
	dst = appendArc(dst, x+w-r, y+h-r, r, 0, math.Pi/2, cornerSegments)
	dst = appendArc(dst, x+r, y+h-r, r, math.Pi/2, math.Pi, cornerSegments)
	dst = appendArc(dst, x+r, y+r, r, math.Pi, 3*math.Pi/2, cornerSegments)
	return dst
}

// circleSegments picks a tessellation density for the given radius.
func circleSegments(r float64) int {
	segs := int(8 + r*0.7)
	if segs < 16 {
		segs = 16
	}
	if segs > 96 {
		segs = 96
	}
	return segs
}

func reversePoints(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// scaleAlpha multiplies all four channels of a premultiplied color.
func scaleAlpha(c color.RGBA, a float64) color.RGBA {
	if a >= 1 {
		return c
	}
	if a <= 0 {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(float64(c.R)*a + 0.5),
		G: uint8(float64(c.G)*a + 0.5),
		B: uint8(float64(c.B)*a + 0.5),
		A: uint8(float64(c.A)*a + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

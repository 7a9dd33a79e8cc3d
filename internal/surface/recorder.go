package surface

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Recorder is a Surface that captures draw calls as readable strings
// instead of pixels. Tests compare the recorded sequences to check that
// rendering is deterministic and ordered.
type Recorder struct {
	W, H int
	Ops  []string

	alpha float64
	stack []float64
}

var _ Surface = (*Recorder)(nil)

func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h, alpha: 1}
}

func (r *Recorder) log(format string, args ...any) {
	r.Ops = append(r.Ops, fmt.Sprintf(format, args...))
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear(c color.RGBA) {
	r.Ops = r.Ops[:0]
	r.log("clear %s", hexColor(c))
}

func (r *Recorder) Push() {
	r.stack = append(r.stack, r.alpha)
	r.log("push")
}

func (r *Recorder) Pop() {
	if n := len(r.stack); n > 0 {
		r.alpha = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.log("pop")
}

func (r *Recorder) Translate(dx, dy float64) { r.log("translate %.3f %.3f", dx, dy) }
func (r *Recorder) Rotate(rad float64)       { r.log("rotate %.4f", rad) }
func (r *Recorder) Scale(sx, sy float64)     { r.log("scale %.3f %.3f", sx, sy) }

func (r *Recorder) SetAlpha(a float64) {
	r.alpha = clamp01(a)
	r.log("alpha %.3f", r.alpha)
}

func (r *Recorder) Alpha() float64 { return r.alpha }

func (r *Recorder) FillRect(x, y, w, h float64, c color.RGBA) {
	r.log("fillRect %.2f %.2f %.2f %.2f %s", x, y, w, h, hexColor(c))
}

func (r *Recorder) FillRoundedRect(x, y, w, h, rad float64, c color.RGBA) {
	r.log("fillRoundedRect %.2f %.2f %.2f %.2f r=%.2f %s", x, y, w, h, rad, hexColor(c))
}

func (r *Recorder) StrokeRect(x, y, w, h, width float64, c color.RGBA) {
	r.log("strokeRect %.2f %.2f %.2f %.2f w=%.2f %s", x, y, w, h, width, hexColor(c))
}

func (r *Recorder) FillCircle(cx, cy, rad float64, c color.RGBA) {
	r.log("fillCircle %.2f %.2f r=%.2f %s", cx, cy, rad, hexColor(c))
}

func (r *Recorder) StrokeCircle(cx, cy, rad, width float64, c color.RGBA) {
	r.log("strokeCircle %.2f %.2f r=%.2f w=%.2f %s", cx, cy, rad, width, hexColor(c))
}

func (r *Recorder) FillPolygon(pts []Point, c color.RGBA) {
	r.log("fillPolygon %s %s", pointsKey(pts), hexColor(c))
}

func (r *Recorder) StrokePolyline(pts []Point, width float64, closed bool, c color.RGBA) {
	r.log("strokePolyline w=%.2f closed=%v %s %s", width, closed, pointsKey(pts), hexColor(c))
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	r.log("drawImage %dx%d %.2f %.2f %.2f %.2f", b.Dx(), b.Dy(), x, y, w, h)
}

func (r *Recorder) DrawImageRounded(img image.Image, x, y, w, h, rad float64) {
	b := img.Bounds()
	r.log("drawImageRounded %dx%d %.2f %.2f %.2f %.2f r=%.2f", b.Dx(), b.Dy(), x, y, w, h, rad)
}

func (r *Recorder) DrawText(text string, x, y float64, style TextStyle) {
	r.log("drawText %q %.2f %.2f size=%.1f %s %s", text, x, y, style.Size, style.Align, hexColor(style.Color))
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func pointsKey(pts []Point) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "n=%d ", len(pts))
	for _, p := range pts {
		fmt.Fprintf(&sb, "%.2f,%.2f;", p.X, p.Y)
	}
	return sb.String()
}

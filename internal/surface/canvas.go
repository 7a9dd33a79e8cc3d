package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/rasterizer"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Canvas renders into an in-memory RGBA frame. Vector shapes are batched
// on one page and rasterized lazily; raster operations (images, text)
// flush the batch first so the draw order of overlapping content holds.
type Canvas struct {
	w, h int
	img  *image.RGBA
	text TextRenderer

	tm    matrix
	alpha float64
	stack []gstate

	page *canvas.Canvas
	ctx  *canvas.Context

	mask *image.RGBA // scratch for rounded image clipping
	pts  []Point     // scratch polygon buffer
	arc  []Point     // scratch joint buffer
}

type gstate struct {
	tm    matrix
	alpha float64
}

var _ Surface = (*Canvas)(nil)

// NewCanvas creates a frame surface of the given pixel size. The text
// renderer may be nil, in which case DrawText does nothing.
func NewCanvas(w, h int, text TextRenderer) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Canvas{
		w:     w,
		h:     h,
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		text:  text,
		tm:    identity(),
		alpha: 1,
	}
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Image flushes pending vector work and returns the backing frame.
// The image is reused between frames, callers must copy it to keep it.
func (c *Canvas) Image() *image.RGBA {
	c.flush()
	return c.img
}

func (c *Canvas) Clear(col color.RGBA) {
	c.page, c.ctx = nil, nil
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) Push() { c.stack = append(c.stack, gstate{c.tm, c.alpha}) }

func (c *Canvas) Pop() {
	if n := len(c.stack); n > 0 {
		top := c.stack[n-1]
		c.stack = c.stack[:n-1]
		c.tm, c.alpha = top.tm, top.alpha
	}
}

func (c *Canvas) Translate(dx, dy float64) { c.tm = c.tm.mul(translation(dx, dy)) }
func (c *Canvas) Rotate(rad float64)       { c.tm = c.tm.mul(rotation(rad)) }
func (c *Canvas) Scale(sx, sy float64)     { c.tm = c.tm.mul(scaling(sx, sy)) }

func (c *Canvas) SetAlpha(a float64) { c.alpha = clamp01(a) }
func (c *Canvas) Alpha() float64     { return c.alpha }

func (c *Canvas) vector() *canvas.Context {
	if c.page == nil {
		c.page = canvas.New(float64(c.w), float64(c.h))
		c.ctx = canvas.NewContext(c.page)
	}
	return c.ctx
}

func (c *Canvas) flush() {
	if c.page == nil {
		return
	}
	r := rasterizer.New(c.img, 1)
	c.page.Render(r)
	c.page, c.ctx = nil, nil
}

// emitContour appends pts as a closed contour. The page origin is the
// bottom-left corner, so y flips here and nowhere else.
func (c *Canvas) emitContour(p *canvas.Path, pts []Point) {
	fh := float64(c.h)
	x, y := c.tm.apply(pts[0].X, pts[0].Y)
	p.MoveTo(x, fh-y)
	for _, pt := range pts[1:] {
		x, y = c.tm.apply(pt.X, pt.Y)
		p.LineTo(x, fh-y)
	}
	p.Close()
}

func (c *Canvas) fillLocal(pts []Point, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	col = scaleAlpha(col, c.alpha)
	if col.A == 0 {
		return
	}
	ctx := c.vector()
	ctx.SetFillColor(col)
	p := &canvas.Path{}
	c.emitContour(p, pts)
	ctx.DrawPath(0, 0, p)
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	c.pts = append(c.pts[:0],
		Point{x, y}, Point{x + w, y}, Point{x + w, y + h}, Point{x, y + h})
	c.fillLocal(c.pts, col)
}

func (c *Canvas) FillRoundedRect(x, y, w, h, r float64, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	r = math.Min(r, math.Min(w, h)/2)
	if r <= 0 {
		c.FillRect(x, y, w, h, col)
		return
	}
	c.pts = appendRoundedRect(c.pts[:0], x, y, w, h, r)
	c.fillLocal(c.pts, col)
}

func (c *Canvas) StrokeRect(x, y, w, h, width float64, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	c.pts = append(c.pts[:0],
		Point{x, y}, Point{x + w, y}, Point{x + w, y + h}, Point{x, y + h})
	c.strokeLocal(c.pts, width, true, col)
}

func (c *Canvas) FillCircle(cx, cy, r float64, col color.RGBA) {
	if r <= 0 {
		return
	}
	c.pts = appendCircle(c.pts[:0], cx, cy, r, circleSegments(r))
	c.fillLocal(c.pts, col)
}

// StrokeCircle fills the ring between r-width/2 and r+width/2. The inner
// contour runs reversed so the non-zero rule leaves the hole open.
func (c *Canvas) StrokeCircle(cx, cy, r, width float64, col color.RGBA) {
	if r <= 0 || width <= 0 {
		return
	}
	half := width / 2
	if half >= r {
		c.FillCircle(cx, cy, r+half, col)
		return
	}
	col = scaleAlpha(col, c.alpha)
	if col.A == 0 {
		return
	}
	segs := circleSegments(r + half)
	outer := appendCircle(nil, cx, cy, r+half, segs)
	inner := appendCircle(nil, cx, cy, r-half, segs)
	reversePoints(inner)

	ctx := c.vector()
	ctx.SetFillColor(col)
	p := &canvas.Path{}
	c.emitContour(p, outer)
	c.emitContour(p, inner)
	ctx.DrawPath(0, 0, p)
}

func (c *Canvas) FillPolygon(pts []Point, col color.RGBA) {
	c.fillLocal(pts, col)
}

func (c *Canvas) StrokePolyline(pts []Point, width float64, closed bool, col color.RGBA) {
	c.strokeLocal(pts, width, closed, col)
}

// strokeLocal builds the stroke as one quad per segment plus a joint
// circle per vertex. All contours keep the same orientation so the
// non-zero rule fills their union without seams.
func (c *Canvas) strokeLocal(pts []Point, width float64, closed bool, col color.RGBA) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	col = scaleAlpha(col, c.alpha)
	if col.A == 0 {
		return
	}
	ctx := c.vector()
	ctx.SetFillColor(col)
	half := width / 2
	p := &canvas.Path{}

	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}
	var quad [4]Point
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%n]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		quad[0] = Point{a.X - nx, a.Y - ny}
		quad[1] = Point{b.X - nx, b.Y - ny}
		quad[2] = Point{b.X + nx, b.Y + ny}
		quad[3] = Point{a.X + nx, a.Y + ny}
		c.emitContour(p, quad[:])
	}
	jsegs := circleSegments(half)
	for i := 0; i < n; i++ {
		c.arc = appendCircle(c.arc[:0], pts[i].X, pts[i].Y, half, jsegs)
		c.emitContour(p, c.arc)
	}
	ctx.DrawPath(0, 0, p)
}

// imageAffine maps source pixels of sb onto the local rectangle
// (x,y,w,h) and through the current transform.
func (c *Canvas) imageAffine(x, y, w, h float64, sb image.Rectangle) f64.Aff3 {
	sx := w / float64(sb.Dx())
	sy := h / float64(sb.Dy())
	a := c.tm.a * sx
	b := c.tm.c * sy
	d := c.tm.b * sx
	e := c.tm.d * sy
	ox, oy := c.tm.apply(x, y)
	mx, my := float64(sb.Min.X), float64(sb.Min.Y)
	return f64.Aff3{
		a, b, ox - a*mx - b*my,
		d, e, oy - d*mx - e*my,
	}
}

func (c *Canvas) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || w <= 0 || h <= 0 || c.alpha <= 0 {
		return
	}
	sb := img.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	c.flush()
	var opts *xdraw.Options
	if c.alpha < 1 {
		opts = &xdraw.Options{
			SrcMask: image.NewUniform(color.Alpha{A: uint8(c.alpha*255 + 0.5)}),
		}
	}
	xdraw.BiLinear.Transform(c.img, c.imageAffine(x, y, w, h, sb), img, sb, xdraw.Over, opts)
}

func (c *Canvas) DrawImageRounded(img image.Image, x, y, w, h, r float64) {
	if r <= 0 {
		c.DrawImage(img, x, y, w, h)
		return
	}
	if img == nil || w <= 0 || h <= 0 || c.alpha <= 0 {
		return
	}
	sb := img.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	c.flush()
	r = math.Min(r, math.Min(w, h)/2)

	// Clip by rasterizing the rounded rectangle into a frame-sized mask.
	if c.mask == nil {
		c.mask = image.NewRGBA(image.Rect(0, 0, c.w, c.h))
	}
	for i := range c.mask.Pix {
		c.mask.Pix[i] = 0
	}
	page := canvas.New(float64(c.w), float64(c.h))
	ctx := canvas.NewContext(page)
	ctx.SetFillColor(color.RGBA{255, 255, 255, 255})
	c.pts = appendRoundedRect(c.pts[:0], x, y, w, h, r)
	p := &canvas.Path{}
	c.emitContour(p, c.pts)
	ctx.DrawPath(0, 0, p)
	page.Render(rasterizer.New(c.mask, 1))

	opts := &xdraw.Options{DstMask: c.mask}
	if c.alpha < 1 {
		opts.SrcMask = image.NewUniform(color.Alpha{A: uint8(c.alpha*255 + 0.5)})
	}
	xdraw.BiLinear.Transform(c.img, c.imageAffine(x, y, w, h, sb), img, sb, xdraw.Over, opts)
}

// DrawText positions the string through the current transform. Rotation
// and scale do not apply to the glyphs themselves, the renderer draws
// with an upright face.
func (c *Canvas) DrawText(text string, x, y float64, style TextStyle) {
	if text == "" || c.text == nil || c.alpha <= 0 {
		return
	}
	c.flush()
	style.Color = scaleAlpha(style.Color, c.alpha)
	tx, ty := c.tm.apply(x, y)
	c.text.DrawText(c.img, text, tx, ty, style)
}

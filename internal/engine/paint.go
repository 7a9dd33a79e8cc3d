package engine

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/promo2video/internal/asset"
	"github.com/ivlev/promo2video/internal/surface"
	"github.com/ivlev/promo2video/internal/timeline"
)

// gradientSteps is the strip/ring count gradients are quantized to.
const gradientSteps = 64

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// paintBackground fills the full frame. Gradients are built from flat
// primitives: rotated strips for linear, concentric circles for radial.
// Image mode cover-fits the asset; a missing asset degrades to solid.
func (o *Orchestrator) paintBackground(cfg timeline.BackgroundConfig) error {
	w := float64(o.scene.Width)
	h := float64(o.scene.Height)
	c1 := parseHex(cfg.Color, o.scene.Background)
	c2 := parseHex(cfg.Color2, cfg.Color)

	switch cfg.Mode {
	case "linear":
		// Strips run perpendicular to the gradient axis, rotated about
		// the frame center and long enough to cover any angle.
		span := math.Hypot(w, h)
		sw := span / gradientSteps
		o.surf.Push()
		o.surf.Translate(w/2, h/2)
		o.surf.Rotate(cfg.Angle)
		for i := 0; i < gradientSteps; i++ {
			p := float64(i) / (gradientSteps - 1)
			x := -span/2 + float64(i)*sw
			o.surf.FillRect(x, -span/2, sw+1, span, lerpRGBA(c1, c2, p))
		}
		o.surf.Pop()

	case "radial":
		// Back to front: the largest circle carries the edge color.
		maxR := math.Hypot(w, h) / 2
		for i := gradientSteps - 1; i >= 0; i-- {
			p := float64(i) / (gradientSteps - 1)
			r := maxR * float64(i+1) / gradientSteps
			o.surf.FillCircle(w/2, h/2, r, lerpRGBA(c1, c2, p))
		}

	case "image":
		img, ok := o.assets.Get(cfg.Asset)
		if !ok {
			o.surf.FillRect(0, 0, w, h, c1)
			return nil
		}
		if si, ok := img.(subImager); ok {
			img = si.SubImage(asset.CoverCrop(img.Bounds(), w, h))
		}
		o.surf.DrawImage(img, 0, 0, w, h)

	default: // solid and anything unrecognized
		o.surf.FillRect(0, 0, w, h, c1)
	}
	return nil
}

// paintShape draws one primitive in its local box. Fill and stroke
// colors honor "fill"/"stroke" keyframe tracks when present.
func (o *Orchestrator) paintShape(l *timeline.Layer, cfg timeline.ShapeConfig, t float64) error {
	w, h := shapeBox(cfg)

	fill, hasFill := shapeColor(l, "fill", cfg.Fill, t)
	stroke, hasStroke := shapeColor(l, "stroke", cfg.Stroke, t)
	sw := cfg.StrokeWidth
	if sw <= 0 {
		sw = 2
	}

	switch cfg.Shape {
	case "rect":
		if hasFill {
			o.surf.FillRoundedRect(0, 0, w, h, cfg.CornerRadius, fill)
		}
		if hasStroke {
			o.surf.StrokeRect(0, 0, w, h, sw, stroke)
		}

	case "circle":
		r := math.Min(w, h) / 2
		if hasFill {
			o.surf.FillCircle(r, r, r, fill)
		}
		if hasStroke {
			o.surf.StrokeCircle(r, r, r, sw, stroke)
		}

	case "triangle":
		pts := []surface.Point{{X: w / 2, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
		if hasFill {
			o.surf.FillPolygon(pts, fill)
		}
		if hasStroke {
			o.surf.StrokePolyline(pts, sw, true, stroke)
		}

	case "polygon":
		sides := cfg.Sides
		if sides < 3 {
			sides = 6
		}
		r := math.Min(w, h) / 2
		pts := make([]surface.Point, sides)
		for i := range pts {
			ang := -math.Pi/2 + 2*math.Pi*float64(i)/float64(sides)
			pts[i] = surface.Point{X: r + r*math.Cos(ang), Y: r + r*math.Sin(ang)}
		}
		if hasFill {
			o.surf.FillPolygon(pts, fill)
		}
		if hasStroke {
			o.surf.StrokePolyline(pts, sw, true, stroke)
		}

	case "line":
		c := stroke
		if !hasStroke {
			if !hasFill {
				return nil
			}
			c = fill
		}
		o.surf.StrokePolyline([]surface.Point{{X: 0, Y: 0}, {X: cfg.X2, Y: cfg.Y2}}, sw, false, c)
	}
	// Unknown shapes paint nothing.
	return nil
}

// shapeBox resolves the local box of a shape: the configured size, or
// the natural size of the primitive when none is given.
func shapeBox(cfg timeline.ShapeConfig) (float64, float64) {
	w, h := cfg.W, cfg.H
	switch cfg.Shape {
	case "circle", "polygon":
		if cfg.Radius > 0 {
			w, h = cfg.Radius*2, cfg.Radius*2
		}
	case "line":
		if w <= 0 {
			w = math.Abs(cfg.X2)
		}
		if h <= 0 {
			h = math.Abs(cfg.Y2)
		}
	}
	return w, h
}

func shapeColor(l *timeline.Layer, property, static string, t float64) (color.RGBA, bool) {
	s := static
	if v, ok := l.ValueAt(property, t); ok && v.Kind == timeline.KindString {
		s = v.Str
	}
	if s == "" {
		return color.RGBA{}, false
	}
	c, ok := timeline.ParseHexColor(s)
	return c, ok
}

// paintImage blits a preloaded asset into the layer box. An asset that
// never loaded is skipped silently.
func (o *Orchestrator) paintImage(cfg timeline.ImageConfig) error {
	img, ok := o.assets.Get(cfg.Asset)
	if !ok {
		return nil
	}

	x, y, w, h := 0.0, 0.0, cfg.W, cfg.H
	if cfg.Fit == "cover" {
		if si, ok := img.(subImager); ok {
			img = si.SubImage(asset.CoverCrop(img.Bounds(), cfg.W, cfg.H))
		}
	} else {
		b := img.Bounds()
		x, y, w, h = asset.ContainRect(float64(b.Dx()), float64(b.Dy()), cfg.W, cfg.H)
	}

	if cfg.CornerRadius > 0 {
		o.surf.DrawImageRounded(img, x, y, w, h, cfg.CornerRadius)
	} else {
		o.surf.DrawImage(img, x, y, w, h)
	}
	return nil
}

// paintText hands the string to the surface's text renderer. The color
// honors a "color" keyframe track; alignment is resolved against the
// layer box when one is configured.
func (o *Orchestrator) paintText(l *timeline.Layer, cfg timeline.TextConfig, t float64) error {
	cs := cfg.Color
	if v, ok := l.ValueAt("color", t); ok && v.Kind == timeline.KindString {
		cs = v.Str
	}

	x := 0.0
	switch cfg.Align {
	case "center":
		x = cfg.W / 2
	case "right":
		x = cfg.W
	}

	o.surf.DrawText(cfg.Text, x, 0, surface.TextStyle{
		Font:  cfg.Font,
		Size:  cfg.Size,
		Color: parseHex(cs, "#ffffff"),
		Align: cfg.Align,
	})
	return nil
}

func parseHex(s, fallback string) color.RGBA {
	if c, ok := timeline.ParseHexColor(s); ok {
		return c
	}
	c, _ := timeline.ParseHexColor(fallback)
	return c
}

func lerpRGBA(a, b color.RGBA, p float64) color.RGBA {
	l := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*p))
	}
	return color.RGBA{l(a.R, b.R), l(a.G, b.G), l(a.B, b.B), l(a.A, b.A)}
}

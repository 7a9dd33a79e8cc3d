// Package surface provides the 2D drawing target used by the render
// pipeline. Coordinates are output pixels with the origin in the top-left
// corner and the y axis pointing down.
package surface

import (
	"image"
	"image/color"
)

// Point is a position in local drawing coordinates.
type Point struct {
	X, Y float64
}

// TextStyle describes how a string is rendered.
type TextStyle struct {
	Font  string
	Size  float64
	Color color.RGBA
	Align string // "left", "center" or "right"
}

// TextRenderer rasterizes text onto an RGBA image. The implementation
// lives outside this package so the surface stays free of font tables.
type TextRenderer interface {
	DrawText(dst *image.RGBA, text string, x, y float64, style TextStyle)
}

// Surface is the drawing contract the frame renderer paints against.
// Implementations must apply the current transform stack and alpha to
// every primitive and keep the call order of overlapping shapes.
type Surface interface {
	// Size returns the frame dimensions in pixels.
	Size() (w, h int)
	// Clear discards all drawn content and fills the frame with c.
	Clear(c color.RGBA)

	// Push saves the current transform and alpha, Pop restores them.
	// Pop on an empty stack is a no-op.
	Push()
	Pop()
	Translate(dx, dy float64)
	Rotate(rad float64)
	Scale(sx, sy float64)
	// SetAlpha sets the absolute opacity for subsequent primitives,
	// clamped to [0,1]. It is saved and restored by Push/Pop.
	SetAlpha(a float64)
	Alpha() float64

	FillRect(x, y, w, h float64, c color.RGBA)
	FillRoundedRect(x, y, w, h, r float64, c color.RGBA)
	StrokeRect(x, y, w, h, width float64, c color.RGBA)
	FillCircle(cx, cy, r float64, c color.RGBA)
	StrokeCircle(cx, cy, r, width float64, c color.RGBA)
	FillPolygon(pts []Point, c color.RGBA)
	// StrokePolyline draws a line of the given width through pts with
	// round joints and caps. closed connects the last point to the first.
	StrokePolyline(pts []Point, width float64, closed bool, c color.RGBA)
	DrawImage(img image.Image, x, y, w, h float64)
	DrawImageRounded(img image.Image, x, y, w, h, r float64)
	DrawText(text string, x, y float64, style TextStyle)
}

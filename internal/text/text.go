// Package text rasterizes strings for the frame surface using the fixed
// 7x13 bitmap face bundled with x/image. No font files are read, so the
// output is identical on every machine.
package text

import (
	"image"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/promo2video/internal/surface"
)

const (
	faceHeight = 13
	faceAscent = 11
)

// Basic implements surface.TextRenderer. The style size scales the
// bitmap face with nearest-neighbor sampling, keeping the pixel look.
type Basic struct{}

var _ surface.TextRenderer = (*Basic)(nil)

func NewBasic() *Basic { return &Basic{} }

// DrawText paints the string with its top-left box corner at (x,y).
// Lines are split on '\n' and aligned per style within their own width.
func (b *Basic) DrawText(dst *image.RGBA, s string, x, y float64, style surface.TextStyle) {
	if s == "" || style.Color.A == 0 {
		return
	}
	scale := 1.0
	if style.Size > 0 {
		scale = style.Size / faceHeight
	}
	lineAdvance := faceHeight * scale

	for i, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		pw := font.MeasureString(basicfont.Face7x13, line).Ceil()
		if pw <= 0 {
			continue
		}

		scratch := image.NewRGBA(image.Rect(0, 0, pw, faceHeight))
		d := font.Drawer{
			Dst:  scratch,
			Src:  image.NewUniform(style.Color),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(0, faceAscent),
		}
		d.DrawString(line)

		dw := float64(pw) * scale
		ox := x
		switch style.Align {
		case "center":
			ox = x - dw/2
		case "right":
			ox = x - dw
		}
		oy := y + float64(i)*lineAdvance

		dr := image.Rect(
			int(math.Round(ox)),
			int(math.Round(oy)),
			int(math.Round(ox+dw)),
			int(math.Round(oy+lineAdvance)),
		)
		xdraw.NearestNeighbor.Scale(dst, dr, scratch, scratch.Bounds(), xdraw.Over, nil)
	}
}

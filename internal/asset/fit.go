package asset

import "image"

// ContainRect returns the centered destination rectangle that fits a
// srcW×srcH image fully inside a boxW×boxH box, preserving aspect.
func ContainRect(srcW, srcH, boxW, boxH float64) (x, y, w, h float64) {
	if srcW <= 0 || srcH <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0, boxW, boxH
	}
	scale := boxW / srcW
	if s := boxH / srcH; s < scale {
		scale = s
	}
	w = srcW * scale
	h = srcH * scale
	return (boxW - w) / 2, (boxH - h) / 2, w, h
}

// CoverCrop returns the centered source crop whose aspect ratio matches
// a boxW×boxH box. Drawing the crop into the full box fills it without
// distortion.
func CoverCrop(sb image.Rectangle, boxW, boxH float64) image.Rectangle {
	sw, sh := float64(sb.Dx()), float64(sb.Dy())
	if sw <= 0 || sh <= 0 || boxW <= 0 || boxH <= 0 {
		return sb
	}
	boxAspect := boxW / boxH
	srcAspect := sw / sh

	cw, ch := sw, sh
	if srcAspect > boxAspect {
		// Source is wider: crop the sides.
		cw = sh * boxAspect
	} else {
		// Source is taller: crop top and bottom.
		ch = sw / boxAspect
	}
	x0 := sb.Min.X + int((sw-cw)/2)
	y0 := sb.Min.Y + int((sh-ch)/2)
	crop := image.Rect(x0, y0, x0+int(cw+0.5), y0+int(ch+0.5))
	return crop.Intersect(sb)
}

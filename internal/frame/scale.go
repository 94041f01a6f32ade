package frame

import (
	"image"

	"golang.org/x/image/draw"
)

// FitSize returns the largest size with the aspect ratio of (w, h) that fits
// inside (maxW, maxH). Both results are at least 1 when the inputs are positive.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	// Compare maxW/w against maxH/h without floating point.
	if maxW*h <= maxH*w {
		fh := h * maxW / w
		if fh < 1 {
			fh = 1
		}
		return maxW, fh
	}
	fw := w * maxH / h
	if fw < 1 {
		fw = 1
	}
	return fw, maxH
}

// ScaleToFit scales src to fit inside (maxW, maxH) keeping its aspect ratio,
// using Catmull-Rom interpolation. A non-positive bound returns src unchanged.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	if w == 0 || h == 0 || (w == b.Dx() && h == b.Dy()) {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

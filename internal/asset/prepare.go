package asset

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

const (
	DefaultWhiteThreshold = 240
	whiteBand             = 30
)

// RemoveNearWhite keys out a white backdrop. Alpha drops to zero at the
// threshold and ramps back linearly over the band below it.
func RemoveNearWhite(img image.Image, threshold float64) *image.NRGBA {
	if threshold <= 0 {
		threshold = DefaultWhiteThreshold
	}
	out := imaging.Clone(img)
	pix := out.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		br := 0.299*float64(pix[i]) + 0.587*float64(pix[i+1]) + 0.114*float64(pix[i+2])
		switch {
		case br >= threshold:
			pix[i+3] = 0
		case br > threshold-whiteBand:
			k := (threshold - br) / whiteBand
			pix[i+3] = uint8(math.Round(float64(pix[i+3]) * k))
		}
	}
	return out
}

// Recolor overwrites RGB and keeps alpha.
func Recolor(img image.Image, c color.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	pix := out.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
	}
	return out
}

// Fit resizes proportionally so the larger side equals ratio*min(boxW, boxH).
func Fit(img image.Image, boxW, boxH int, ratio float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || boxW <= 0 || boxH <= 0 || ratio <= 0 {
		return imaging.Clone(img)
	}

	target := int(math.Floor(ratio * float64(min(boxW, boxH))))
	if target < 1 {
		target = 1
	}

	var nw, nh int
	if w >= h {
		nw = target
		nh = int(math.Round(float64(h) * float64(target) / float64(w)))
	} else {
		nh = target
		nw = int(math.Round(float64(w) * float64(target) / float64(h)))
	}
	nw = max(nw, 1)
	nh = max(nh, 1)
	return imaging.Resize(img, nw, nh, imaging.Lanczos)
}

// Opacity scales alpha by factor, clamped to [0,1].
func Opacity(img image.Image, factor float64) *image.NRGBA {
	factor = math.Max(0, math.Min(1, factor))
	out := imaging.Clone(img)
	if factor == 1 {
		return out
	}
	pix := out.Pix
	for i := 3; i < len(pix); i += 4 {
		pix[i] = uint8(math.Round(float64(pix[i]) * factor))
	}
	return out
}

package sampler

import (
	"image"
	"image/color"

	"mockup-compositor/internal/zone"
)

const DefaultBorder = 8

// minRingPixels is the smallest ring that still gives a usable median.
const minRingPixels = 5

var (
	Neutral   = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	White     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	NearBlack = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

// SampleSurrounding returns the per-channel median of the pixels that lie
// within border pixels of the mask but outside it.
func SampleSurrounding(img image.Image, mask *zone.Mask, border int) color.NRGBA {
	if border <= 0 {
		border = DefaultBorder
	}
	ring := mask.Dilate(border).Minus(mask)
	if ring.Count() < minRingPixels {
		return Neutral
	}

	var hr, hg, hb [256]int
	b := img.Bounds()
	nrgba, fast := img.(*image.NRGBA)
	n := 0
	ring.Each(func(x, y int) {
		px, py := b.Min.X+x, b.Min.Y+y
		if !(image.Point{X: px, Y: py}.In(b)) {
			return
		}
		var c color.NRGBA
		if fast {
			c = nrgba.NRGBAAt(px, py)
		} else {
			c = color.NRGBAModel.Convert(img.At(px, py)).(color.NRGBA)
		}
		hr[c.R]++
		hg[c.G]++
		hb[c.B]++
		n++
	})
	if n < minRingPixels {
		return Neutral
	}

	return color.NRGBA{R: median(&hr, n), G: median(&hg, n), B: median(&hb, n), A: 255}
}

// median reads the median out of a 256-bin histogram holding n samples. Even
// counts average the two middle samples.
func median(hist *[256]int, n int) uint8 {
	lo := nth(hist, (n-1)/2)
	hi := nth(hist, n/2)
	return uint8((int(lo) + int(hi)) / 2)
}

func nth(hist *[256]int, k int) uint8 {
	seen := 0
	for v, c := range hist {
		seen += c
		if seen > k {
			return uint8(v)
		}
	}
	return 255
}

func Brightness(c color.NRGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Contrasting is the single legibility policy for text and logos placed on
// an arbitrary fill.
func Contrasting(c color.NRGBA) color.NRGBA {
	if Brightness(c) < 128 {
		return White
	}
	return NearBlack
}

func IsDark(c color.NRGBA) bool {
	return Brightness(c) < 128
}

// Package composite holds the pixel primitives handlers build mockups from.
// Canvases are *image.NRGBA with origin (0,0), the same coordinate space as
// the zone masks detected on the template they were cloned from.
package composite

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"mockup-compositor/internal/zone"
)

// FillMask overwrites every masked canvas pixel with c at full opacity.
func FillMask(dst *image.NRGBA, m *zone.Mask, c color.NRGBA) {
	b := dst.Bounds()
	m.Each(func(x, y int) {
		if !(image.Point{X: x, Y: y}.In(b)) {
			return
		}
		i := dst.PixOffset(x, y)
		dst.Pix[i+0] = c.R
		dst.Pix[i+1] = c.G
		dst.Pix[i+2] = c.B
		dst.Pix[i+3] = 255
	})
}

// ClipPaste composites src over dst with its top-left corner at `at`, touching
// only pixels where m is true. A nil mask pastes unclipped. Pixels outside the
// mask are left bit-identical.
func ClipPaste(dst *image.NRGBA, src image.Image, at image.Point, m *zone.Mask) {
	s := toNRGBA(src)
	sb := s.Bounds()
	target := image.Rectangle{Min: at, Max: at.Add(sb.Size())}.Intersect(dst.Bounds())
	if target.Empty() {
		return
	}

	for y := target.Min.Y; y < target.Max.Y; y++ {
		for x := target.Min.X; x < target.Max.X; x++ {
			if m != nil && !m.At(x, y) {
				continue
			}
			si := s.PixOffset(sb.Min.X+x-at.X, sb.Min.Y+y-at.Y)
			sa := int(s.Pix[si+3])
			if sa == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			if sa == 255 {
				copy(dst.Pix[di:di+4], s.Pix[si:si+4])
				continue
			}
			over(dst.Pix[di:di+4], s.Pix[si:si+4])
		}
	}
}

// over blends one non-premultiplied source pixel onto a destination pixel.
func over(d, s []uint8) {
	sa := int(s[3])
	da := int(d[3])
	// weights scaled by 255*255
	ws := sa * 255
	wd := da * (255 - sa)
	wa := ws + wd
	if wa == 0 {
		d[0], d[1], d[2], d[3] = 0, 0, 0, 0
		return
	}
	for c := 0; c < 3; c++ {
		d[c] = uint8((int(s[c])*ws + int(d[c])*wd + wa/2) / wa)
	}
	d[3] = uint8((wa + 127) / 255)
}

// CenterIn returns the top-left point that centres an item of the given size
// inside box.
func CenterIn(box zone.BoundingBox, size image.Point) image.Point {
	c := box.Center()
	return image.Pt(c.X-size.X/2, c.Y-size.Y/2)
}

// PlaceCentered pastes src centred on box, clipped to m.
func PlaceCentered(dst *image.NRGBA, src image.Image, box zone.BoundingBox, m *zone.Mask) image.Point {
	at := CenterIn(box, src.Bounds().Size())
	ClipPaste(dst, src, at, m)
	return at
}

// CoverFill scales src to cover box, centre-crops the overflow and pastes it
// through the mask over an opaque underlay of under. Transparent source
// pixels show under, never the marker.
func CoverFill(dst *image.NRGBA, src image.Image, m *zone.Mask, box zone.BoundingBox, under color.NRGBA) {
	w, h := box.W(), box.H()
	if w <= 0 || h <= 0 {
		return
	}
	under.A = 255
	FillMask(dst, m, under)
	filled := imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)
	ClipPaste(dst, filled, image.Pt(box.X1, box.Y1), m)
}

// TileFill repeats pattern across box at the given tile height and pastes it
// through the mask over an opaque underlay of under.
func TileFill(dst *image.NRGBA, pattern image.Image, m *zone.Mask, box zone.BoundingBox, tileHeight int, under color.NRGBA) {
	pb := pattern.Bounds()
	if pb.Dx() == 0 || pb.Dy() == 0 {
		return
	}
	under.A = 255
	FillMask(dst, m, under)
	if tileHeight <= 0 {
		tileHeight = pb.Dy()
	}
	tileWidth := max(1, pb.Dx()*tileHeight/pb.Dy())
	tile := imaging.Resize(pattern, tileWidth, tileHeight, imaging.Lanczos)

	layer := image.NewNRGBA(image.Rect(0, 0, box.W(), box.H()))
	for y := 0; y < box.H(); y++ {
		for x := 0; x < box.W(); x++ {
			si := tile.PixOffset(x%tileWidth, y%tileHeight)
			di := layer.PixOffset(x, y)
			copy(layer.Pix[di:di+4], tile.Pix[si:si+4])
		}
	}
	ClipPaste(dst, layer, image.Pt(box.X1, box.Y1), m)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}

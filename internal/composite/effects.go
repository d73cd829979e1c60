package composite

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"mockup-compositor/internal/zone"
)

type Shadow struct {
	Offset image.Point
	Blur   float64
	Alpha  float64
}

// DefaultShadow is a soft drop shadow for logos on printed surfaces.
var DefaultShadow = Shadow{Offset: image.Pt(3, 4), Blur: 4, Alpha: 0.35}

// PasteWithShadow draws a blurred, alpha-scaled silhouette of src offset from
// `at`, then src itself on top. Both are clipped to m.
func PasteWithShadow(dst *image.NRGBA, src image.Image, at image.Point, s Shadow, m *zone.Mask) {
	if s.Alpha > 0 {
		pad := int(math.Ceil(s.Blur * 3))
		sn := toNRGBA(src)
		sb := sn.Bounds()
		sil := image.NewNRGBA(image.Rect(0, 0, sb.Dx()+2*pad, sb.Dy()+2*pad))
		alpha := math.Min(1, s.Alpha)
		for y := 0; y < sb.Dy(); y++ {
			for x := 0; x < sb.Dx(); x++ {
				a := sn.Pix[sn.PixOffset(sb.Min.X+x, sb.Min.Y+y)+3]
				if a == 0 {
					continue
				}
				// silhouette colour stays black, only alpha carries the shape
				sil.Pix[sil.PixOffset(x+pad, y+pad)+3] = uint8(math.Round(float64(a) * alpha))
			}
		}
		if s.Blur > 0 {
			sil = imaging.Blur(sil, s.Blur)
		}
		ClipPaste(dst, sil, at.Add(s.Offset).Sub(image.Pt(pad, pad)), m)
	}
	ClipPaste(dst, src, at, m)
}

// FabricBlend multiplies the original template's shading back over the masked
// region at the given strength. Shading is the original luminance relative to
// its mean inside the mask, so a flat marker fill leaves dst unchanged.
func FabricBlend(dst *image.NRGBA, original image.Image, m *zone.Mask, strength float64) {
	strength = math.Max(0, math.Min(1, strength))
	if strength == 0 || m.Count() == 0 {
		return
	}
	orig := toNRGBA(original)
	ob := orig.Bounds()

	lum := func(x, y int) float64 {
		i := orig.PixOffset(ob.Min.X+x, ob.Min.Y+y)
		return 0.299*float64(orig.Pix[i]) + 0.587*float64(orig.Pix[i+1]) + 0.114*float64(orig.Pix[i+2])
	}
	inside := func(x, y int) bool {
		return x < ob.Dx() && y < ob.Dy() && image.Pt(x, y).In(dst.Bounds())
	}

	var sum float64
	n := 0
	m.Each(func(x, y int) {
		if inside(x, y) {
			sum += lum(x, y)
			n++
		}
	})
	if n == 0 || sum == 0 {
		return
	}
	mean := sum / float64(n)

	m.Each(func(x, y int) {
		if !inside(x, y) {
			return
		}
		factor := math.Min(2, lum(x, y)/mean)
		i := dst.PixOffset(x, y)
		for c := 0; c < 3; c++ {
			v := float64(dst.Pix[i+c])
			shaded := math.Min(255, v*factor)
			dst.Pix[i+c] = uint8(math.Round(v*(1-strength) + shaded*strength))
		}
	})
}

// RoundedClip returns a copy of img with rounded-rectangle corners of radius
// radiusRatio*min(w,h) made transparent, with a one-pixel soft edge.
func RoundedClip(img image.Image, radiusRatio float64) *image.NRGBA {
	out := imaging.Clone(img)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	r := radiusRatio * float64(min(w, h))
	r = math.Min(r, float64(min(w, h))/2)
	if r <= 0 {
		return out
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			var cx, cy float64
			switch {
			case px < r && py < r:
				cx, cy = r, r
			case px > float64(w)-r && py < r:
				cx, cy = float64(w)-r, r
			case px < r && py > float64(h)-r:
				cx, cy = r, float64(h)-r
			case px > float64(w)-r && py > float64(h)-r:
				cx, cy = float64(w)-r, float64(h)-r
			default:
				continue
			}
			d := math.Hypot(px-cx, py-cy)
			cover := math.Max(0, math.Min(1, r+0.5-d))
			if cover >= 1 {
				continue
			}
			i := out.PixOffset(x, y)
			out.Pix[i+3] = uint8(math.Round(float64(out.Pix[i+3]) * cover))
		}
	}
	return out
}

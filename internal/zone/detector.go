package zone

import (
	"image"
	"image/color"
)

const (
	DefaultTolerance = 30
	DefaultMinPixels = 50
)

// Options is the immutable marker convention a Detector is built with.
type Options struct {
	Markers   []Marker
	Tolerance int
	MinPixels int
}

func DefaultOptions() Options {
	return Options{
		Markers:   DefaultMarkers(),
		Tolerance: DefaultTolerance,
		MinPixels: DefaultMinPixels,
	}
}

type Detector struct {
	markers   []Marker
	tolerance int
	minPixels int
}

func NewDetector(opts Options) *Detector {
	markers := opts.Markers
	if len(markers) == 0 {
		markers = DefaultMarkers()
	}
	tolerance := opts.Tolerance
	if tolerance < 0 {
		tolerance = 0
	}
	if tolerance > 255 {
		tolerance = 255
	}
	minPixels := opts.MinPixels
	if minPixels < 1 {
		minPixels = 1
	}

	out := make([]Marker, len(markers))
	copy(out, markers)
	return &Detector{
		markers:   out,
		tolerance: tolerance,
		minPixels: minPixels,
	}
}

func (d *Detector) Markers() []Marker {
	out := make([]Marker, len(d.markers))
	copy(out, d.markers)
	return out
}

func (d *Detector) Tolerance() int { return d.tolerance }
func (d *Detector) MinPixels() int { return d.minPixels }

// Detect marks every pixel whose RGB channels are each within the detector
// tolerance of the marker colour. Alpha is ignored.
func (d *Detector) Detect(img image.Image, m Marker) *Mask {
	b := img.Bounds()
	mask := NewMask(b.Dx(), b.Dy())
	tr, tg, tb := int(m.RGB.R), int(m.RGB.G), int(m.RGB.B)
	tol := d.tolerance

	match := func(r, g, bl uint8) bool {
		return absDiff(int(r), tr) <= tol && absDiff(int(g), tg) <= tol && absDiff(int(bl), tb) <= tol
	}

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
			for x := 0; x < b.Dx(); x++ {
				i := x * 4
				if match(row[i], row[i+1], row[i+2]) {
					mask.Set(x, y, true)
				}
			}
		}
		return mask
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if match(c.R, c.G, c.B) {
				mask.Set(x-b.Min.X, y-b.Min.Y, true)
			}
		}
	}
	return mask
}

// Present reports whether the mask reaches the minimum pixel count. Masks
// below it are treated as absent, never partially applied.
func (d *Detector) Present(mask *Mask) bool {
	return mask.Count() >= d.minPixels
}

// BBox returns the bounding box of a present mask.
func (d *Detector) BBox(mask *Mask) (BoundingBox, bool) {
	if !d.Present(mask) {
		return BoundingBox{}, false
	}
	return mask.Bounds()
}

// Zone is the detection result for one marker.
type Zone struct {
	Marker  Marker
	Mask    *Mask
	Box     BoundingBox
	Present bool
}

// Set holds one Zone per marker, in detector marker order. A Set and its masks
// are shared read-only between tasks once built.
type Set struct {
	Width, Height int
	Zones         []Zone
}

// Role returns the first present zone for the role.
func (s Set) Role(r Role) (Zone, bool) {
	for _, z := range s.Zones {
		if z.Marker.Role == r && z.Present {
			return z, true
		}
	}
	return Zone{}, false
}

func (s Set) Any() bool {
	for _, z := range s.Zones {
		if z.Present {
			return true
		}
	}
	return false
}

func (d *Detector) DetectAll(img image.Image) Set {
	b := img.Bounds()
	set := Set{Width: b.Dx(), Height: b.Dy(), Zones: make([]Zone, 0, len(d.markers))}
	for _, m := range d.markers {
		mask := d.Detect(img, m)
		z := Zone{Marker: m, Mask: mask}
		if box, ok := d.BBox(mask); ok {
			z.Box = box
			z.Present = true
		}
		set.Zones = append(set.Zones, z)
	}
	return set
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

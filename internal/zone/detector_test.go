package zone

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

// solid returns a w x h NRGBA image filled with c.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// paint sets n pixels in row-major order starting at (x0, y0) inside a block
// that is width cells wide.
func paint(img *image.NRGBA, x0, y0, width, n int, c color.NRGBA) {
	for i := 0; i < n; i++ {
		img.SetNRGBA(x0+i%width, y0+i/width, c)
	}
}

func TestDetect_ExactAndOutOfTolerance(t *testing.T) {
	d := NewDetector(DefaultOptions())
	for _, m := range DefaultMarkers() {
		img := solid(4, 1, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
		img.SetNRGBA(0, 0, m.RGB)

		near := m.RGB
		near.A = 0
		if near.R >= 30 {
			near.R -= 30
		} else {
			near.R += 30
		}
		img.SetNRGBA(1, 0, near)

		far := m.RGB
		if far.G >= 31 {
			far.G -= 31
		} else {
			far.G += 31
		}
		img.SetNRGBA(2, 0, far)

		mask := d.Detect(img, m)
		if !mask.At(0, 0) {
			t.Fatalf("%s: exact marker pixel not detected", m.Name)
		}
		if !mask.At(1, 0) {
			t.Fatalf("%s: pixel within tolerance (alpha 0) not detected", m.Name)
		}
		if mask.At(2, 0) {
			t.Fatalf("%s: pixel beyond tolerance detected", m.Name)
		}
		if mask.At(3, 0) {
			t.Fatalf("%s: background pixel detected", m.Name)
		}
	}
}

func TestDetect_CustomTolerance(t *testing.T) {
	d := NewDetector(Options{Tolerance: 5, MinPixels: 1})
	img := solid(2, 1, color.NRGBA{R: 250, G: 0, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 249, G: 0, B: 255, A: 255})
	mask := d.Detect(img, Magenta)
	if !mask.At(0, 0) || mask.At(1, 0) {
		t.Fatalf("unexpected mask for tolerance 5: %v %v", mask.At(0, 0), mask.At(1, 0))
	}
}

func TestDetect_NonNRGBAInput(t *testing.T) {
	d := NewDetector(DefaultOptions())
	img := image.NewRGBA(image.Rect(5, 5, 15, 15))
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 0, G: 255, B: 255, A: 255})
		}
	}
	mask := d.Detect(img, Cyan)
	if mask.W != 10 || mask.H != 10 {
		t.Fatalf("expected 10x10 mask, got %dx%d", mask.W, mask.H)
	}
	if mask.Count() != 100 {
		t.Fatalf("expected 100 pixels, got %d", mask.Count())
	}
}

func TestPresent_Threshold(t *testing.T) {
	d := NewDetector(DefaultOptions())
	cases := []struct {
		n       int
		present bool
	}{
		{0, false},
		{49, false},
		{50, true},
		{51, true},
	}
	for _, tc := range cases {
		img := solid(20, 20, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		paint(img, 2, 2, 10, tc.n, Magenta.RGB)
		set := d.DetectAll(img)
		z := set.Zones[0]
		if z.Mask.Count() != tc.n {
			t.Fatalf("n=%d: mask count %d", tc.n, z.Mask.Count())
		}
		if z.Present != tc.present {
			t.Fatalf("n=%d: present=%v want %v", tc.n, z.Present, tc.present)
		}
		if _, ok := d.BBox(z.Mask); ok != tc.present {
			t.Fatalf("n=%d: bbox ok=%v want %v", tc.n, ok, tc.present)
		}
		if _, ok := set.Role(RoleLogo); ok != tc.present {
			t.Fatalf("n=%d: role lookup ok=%v", tc.n, ok)
		}
	}
}

func TestBBox_Tight(t *testing.T) {
	d := NewDetector(DefaultOptions())
	img := solid(100, 100, color.NRGBA{A: 255})
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			img.SetNRGBA(x, y, Yellow.RGB)
		}
	}
	box, ok := d.BBox(d.Detect(img, Yellow))
	if !ok {
		t.Fatalf("expected box")
	}
	if box != (BoundingBox{X1: 10, Y1: 10, X2: 29, Y2: 29}) {
		t.Fatalf("unexpected box %+v", box)
	}
	if box.W() != 20 || box.H() != 20 {
		t.Fatalf("unexpected size %dx%d", box.W(), box.H())
	}
	if box.Rect() != image.Rect(10, 10, 30, 30) {
		t.Fatalf("unexpected rect %v", box.Rect())
	}
}

func TestDetectAll_NoZones(t *testing.T) {
	d := NewDetector(DefaultOptions())
	set := d.DetectAll(solid(30, 30, color.NRGBA{R: 90, G: 120, B: 60, A: 255}))
	if set.Any() {
		t.Fatalf("expected no zones")
	}
	if len(set.Zones) != 3 {
		t.Fatalf("expected one entry per marker, got %d", len(set.Zones))
	}
}

func TestMask_DilateAndMinus(t *testing.T) {
	m := NewMask(10, 10)
	m.Set(5, 5, true)
	d := m.Dilate(2)
	if d.Count() != 25 {
		t.Fatalf("expected 5x5 dilation, got %d", d.Count())
	}
	if !d.At(3, 3) || !d.At(7, 7) || d.At(2, 5) || d.At(8, 5) {
		t.Fatalf("unexpected dilation shape")
	}
	ring := d.Minus(m)
	if ring.Count() != 24 || ring.At(5, 5) {
		t.Fatalf("unexpected ring count %d", ring.Count())
	}
}

func TestMask_DilateClipsAtEdges(t *testing.T) {
	m := NewMask(4, 4)
	m.Set(0, 0, true)
	d := m.Dilate(8)
	if d.Count() != 16 {
		t.Fatalf("expected full coverage, got %d", d.Count())
	}
}

func TestCache_ReusesSet(t *testing.T) {
	d := NewDetector(DefaultOptions())
	c, err := NewCache(d, 4)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	img := solid(20, 20, Magenta.RGB)
	raw := []byte("template-bytes")
	a := c.Zones("tshirt", raw, img)
	b := c.Zones("tshirt", raw, solid(20, 20, color.NRGBA{A: 255}))
	if c.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", c.Len())
	}
	if a.Zones[0].Mask != b.Zones[0].Mask {
		t.Fatalf("expected cached mask to be reused")
	}
	c.Zones("tshirt", []byte("other"), img)
	if c.Len() != 2 {
		t.Fatalf("expected content change to miss the cache")
	}
}

func TestManifest_Write(t *testing.T) {
	d := NewDetector(DefaultOptions())
	img := solid(40, 40, color.NRGBA{A: 255})
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, Cyan.RGB)
		}
	}
	m := NewManifest(d)
	m.Add("wall_poster", d.DetectAll(img))
	m.Add("blank", d.DetectAll(solid(5, 5, color.NRGBA{A: 255})))

	path := filepath.Join(t.TempDir(), "out", "zones.json")
	if err := m.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Manifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Templates) != 2 || got.Templates[0].ID != "blank" {
		t.Fatalf("unexpected templates %+v", got.Templates)
	}
	poster := got.Templates[1]
	if len(poster.Zones) != 1 || poster.Zones[0].Role != "TEXT" || poster.Zones[0].Pixels != 100 {
		t.Fatalf("unexpected zones %+v", poster.Zones)
	}
	if poster.Zones[0].Box != [4]int{0, 0, 9, 9} {
		t.Fatalf("unexpected bbox %v", poster.Zones[0].Box)
	}
}

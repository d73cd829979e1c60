package asset

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestOpen_MissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "nope.png")); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing for absent file, got %v", err)
	}
	empty := filepath.Join(dir, "empty.png")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(empty); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing for zero-byte file, got %v", err)
	}
	if _, err := Open(""); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing for empty path, got %v", err)
	}
}

func TestOpen_DecodesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	writePNG(t, path, uniform(7, 3, color.NRGBA{R: 10, A: 255}))
	img, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if img.Bounds().Dx() != 7 || img.Bounds().Dy() != 3 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestOpen_CorruptIsNotMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("\x89PNG garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil || errors.Is(err, ErrMissing) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRemoveNearWhite_SoftBand(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 225, G: 225, B: 225, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	img.SetNRGBA(3, 0, color.NRGBA{R: 240, G: 240, B: 240, A: 255})

	out := RemoveNearWhite(img, 240)
	if a := out.NRGBAAt(0, 0).A; a != 0 {
		t.Fatalf("white should be transparent, alpha=%d", a)
	}
	if a := out.NRGBAAt(3, 0).A; a != 0 {
		t.Fatalf("threshold pixel should be transparent, alpha=%d", a)
	}
	if a := out.NRGBAAt(1, 0).A; a < 125 || a > 130 {
		t.Fatalf("mid-band pixel should be half transparent, alpha=%d", a)
	}
	if a := out.NRGBAAt(2, 0).A; a != 255 {
		t.Fatalf("pixel below band should keep alpha, alpha=%d", a)
	}
	if img.NRGBAAt(0, 0).A != 255 {
		t.Fatalf("input must not be modified")
	}
}

func TestRecolor_KeepsAlpha(t *testing.T) {
	img := uniform(3, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 77})
	out := Recolor(img, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	c := out.NRGBAAt(1, 1)
	if c.R != 255 || c.G != 255 || c.B != 255 || c.A != 77 {
		t.Fatalf("unexpected pixel %v", c)
	}
}

func TestFit_PreservesAspect(t *testing.T) {
	cases := []struct {
		w, h, boxW, boxH int
		ratio            float64
		wantLarge        int
	}{
		{200, 100, 100, 80, 0.5, 40},
		{100, 300, 90, 120, 0.5, 45},
		{50, 50, 200, 200, 1.0, 200},
		{321, 123, 57, 91, 0.6, 34},
	}
	for _, tc := range cases {
		out := Fit(uniform(tc.w, tc.h, color.NRGBA{A: 255}), tc.boxW, tc.boxH, tc.ratio)
		gw, gh := out.Bounds().Dx(), out.Bounds().Dy()
		if max(gw, gh) != tc.wantLarge {
			t.Fatalf("%dx%d in %dx%d: larger side %d, want %d", tc.w, tc.h, tc.boxW, tc.boxH, max(gw, gh), tc.wantLarge)
		}
		if float64(max(gw, gh)) > tc.ratio*float64(min(tc.boxW, tc.boxH)) {
			t.Fatalf("exceeded ratio: %dx%d", gw, gh)
		}
		var expected float64
		if tc.w >= tc.h {
			expected = float64(gw) * float64(tc.h) / float64(tc.w)
			if math.Abs(float64(gh)-expected) > 1 {
				t.Fatalf("aspect drift: got h=%d expected %.2f", gh, expected)
			}
		} else {
			expected = float64(gh) * float64(tc.w) / float64(tc.h)
			if math.Abs(float64(gw)-expected) > 1 {
				t.Fatalf("aspect drift: got w=%d expected %.2f", gw, expected)
			}
		}
	}
}

func TestOpacity_Scales(t *testing.T) {
	img := uniform(2, 2, color.NRGBA{R: 1, A: 200})
	if a := Opacity(img, 0.5).NRGBAAt(0, 0).A; a != 100 {
		t.Fatalf("expected 100, got %d", a)
	}
	if a := Opacity(img, 2).NRGBAAt(0, 0).A; a != 200 {
		t.Fatalf("factor should clamp to 1, got %d", a)
	}
	if a := Opacity(img, -1).NRGBAAt(0, 0).A; a != 0 {
		t.Fatalf("factor should clamp to 0, got %d", a)
	}
}

package brand

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mockup-compositor/internal/asset"
	"mockup-compositor/internal/sampler"
)

func writeLogo(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 3 && x < 9 && y >= 3 && y < 9 {
				c = color.NRGBA{R: 200, G: 20, B: 20, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_MetadataAndDiscovery(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bold-sunrise")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	meta := `{"id":"sunrise","name":"Bold Sunrise","website":"https://sunrise.example",
		"colors":[{"role":"Primary","hex":"#ff6600"},{"role":"secondary","hex":"1a1a2e"}]}`
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}
	writeLogo(t, filepath.Join(dir, "logo.png"))

	d, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.ID != "sunrise" || d.Name != "Bold Sunrise" || d.Website != "https://sunrise.example" {
		t.Fatalf("unexpected metadata %+v", d)
	}
	if got := d.Primary(); got != (color.NRGBA{R: 255, G: 102, B: 0, A: 255}) {
		t.Fatalf("unexpected primary %v", got)
	}
	if got := d.Secondary(); got != (color.NRGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 255}) {
		t.Fatalf("unexpected secondary %v", got)
	}
	if _, ok := d.Color("primary"); !ok {
		t.Fatalf("role lookup should be case-insensitive")
	}
	if d.Paths[KindLogo] == "" || d.Paths[KindPattern] != "" {
		t.Fatalf("unexpected discovered paths %v", d.Paths)
	}
	if _, err := d.Image(KindPattern); !errors.Is(err, asset.ErrMissing) {
		t.Fatalf("expected missing pattern, got %v", err)
	}
}

func TestLoad_WithoutMetadataUsesDirName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "quiet-forest")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	d, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.ID != "quiet-forest" || d.Name != "quiet-forest" {
		t.Fatalf("unexpected id/name %q %q", d.ID, d.Name)
	}
	if got := d.Primary(); got != fallbackPrimary {
		t.Fatalf("expected fallback primary, got %v", got)
	}
}

func TestLoad_BadHex(t *testing.T) {
	dir := t.TempDir()
	meta := `{"id":"x","colors":[{"role":"primary","hex":"#zzzzzz"}]}`
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected hex parse error")
	}
}

func TestDerivedLogoVariants(t *testing.T) {
	dir := t.TempDir()
	writeLogo(t, filepath.Join(dir, "logo.png"))
	d, err := New(Metadata{ID: "d1"}, map[Kind]string{KindLogo: filepath.Join(dir, "logo.png")})
	if err != nil {
		t.Fatal(err)
	}

	transparent, err := d.Image(KindLogoTransparent)
	if err != nil {
		t.Fatalf("transparent variant: %v", err)
	}
	if _, _, _, a := transparent.At(0, 0).RGBA(); a != 0 {
		t.Fatalf("white backdrop should be keyed out")
	}

	white, err := d.LogoOn(color.NRGBA{A: 255})
	if err != nil {
		t.Fatalf("white variant: %v", err)
	}
	c := color.NRGBAModel.Convert(white.At(5, 5)).(color.NRGBA)
	if c.R != 255 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Fatalf("expected white logo body, got %v", c)
	}

	black, err := d.LogoOn(color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	if err != nil {
		t.Fatalf("black variant: %v", err)
	}
	c = color.NRGBAModel.Convert(black.At(5, 5)).(color.NRGBA)
	if c.R != sampler.NearBlack.R || c.A != 255 {
		t.Fatalf("expected near-black logo body, got %v", c)
	}

	again, _ := d.Image(KindLogoWhite)
	if again != white {
		t.Fatalf("derived variant should be computed once")
	}
}

func TestLogoMissingPropagates(t *testing.T) {
	d, err := New(Metadata{ID: "d2"}, map[Kind]string{KindLogo: "/does/not/exist.png"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.LogoOn(color.NRGBA{A: 255}); !errors.Is(err, asset.ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestLoadAll_SortsAndReportsErrors(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "broken"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "broken", MetadataFile), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	dirs, err := LoadAll(root)
	if err == nil {
		t.Fatalf("expected error for broken bundle")
	}
	if len(dirs) != 2 || dirs[0].ID != "alpha" || dirs[1].ID != "zeta" {
		t.Fatalf("unexpected directions %v", dirs)
	}
}

func TestNew_RejectsPathLikeIDs(t *testing.T) {
	for _, id := range []string{"../../escaped", "a/b", `a\b`, "..", ".", "c:evil", "x..y"} {
		if _, err := New(Metadata{ID: id}, nil); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("id %q: err = %v, want ErrInvalidID", id, err)
		}
	}
	if _, err := New(Metadata{ID: "bold_sunrise-2"}, nil); err != nil {
		t.Fatalf("plain id rejected: %v", err)
	}
}

func TestLoad_RejectsEscapingID(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sneaky")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	meta := `{"id":"../../escaped","colors":[{"role":"primary","hex":"#112233"}]}`
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
}

package composite

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const minFontSize = 6

// Typeface wraps a parsed font. Faces are created per call because a face is
// not safe for concurrent use.
type Typeface struct {
	font *opentype.Font
}

func DefaultTypeface() (*Typeface, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return &Typeface{font: f}, nil
}

func LoadTypeface(path string) (*Typeface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &Typeface{font: f}, nil
}

// AutoSizedText renders text onto a transparent layer of the given size,
// using the largest point size (searching down from maxSize) whose glyph
// bounds fit the layer minus a 5% margin per side. The text is centred.
func (t *Typeface) AutoSizedText(text string, size image.Point, fill color.NRGBA, maxSize float64) (*image.NRGBA, float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, 0, errors.New("empty text")
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, 0, errors.New("empty text box")
	}
	if maxSize <= 0 {
		maxSize = float64(size.Y)
	}

	availW := size.X - 2*max(1, size.X/20)
	availH := size.Y - 2*max(1, size.Y/20)

	pt := minFontSize
	for s := int(maxSize); s >= minFontSize; s-- {
		w, h, err := t.measure(text, float64(s))
		if err != nil {
			return nil, 0, err
		}
		if w <= availW && h <= availH {
			pt = s
			break
		}
	}

	face, err := t.face(float64(pt))
	if err != nil {
		return nil, 0, err
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, text)
	glyphW := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphH := (bounds.Max.Y - bounds.Min.Y).Ceil()
	originX := (size.X-glyphW)/2 - bounds.Min.X.Floor()
	originY := (size.Y-glyphH)/2 - bounds.Min.Y.Floor()

	layer := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	d := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(fill),
		Face: face,
		Dot:  fixed.P(originX, originY),
	}
	d.DrawString(text)
	return layer, float64(pt), nil
}

func (t *Typeface) measure(text string, size float64) (int, int, error) {
	face, err := t.face(size)
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()
	bounds, _ := font.BoundString(face, text)
	return (bounds.Max.X - bounds.Min.X).Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil(), nil
}

func (t *Typeface) face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(t.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

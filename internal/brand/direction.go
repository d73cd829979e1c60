package brand

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"

	"mockup-compositor/internal/asset"
	"mockup-compositor/internal/sampler"
)

type Kind string

const (
	KindBackground      Kind = "background"
	KindLogo            Kind = "logo"
	KindLogoWhite       Kind = "logo_white"
	KindLogoBlack       Kind = "logo_black"
	KindLogoTransparent Kind = "logo_transparent"
	KindPattern         Kind = "pattern"
)

func Kinds() []Kind {
	return []Kind{KindBackground, KindLogo, KindLogoWhite, KindLogoBlack, KindLogoTransparent, KindPattern}
}

type Swatch struct {
	Role  string
	Color color.NRGBA
}

// ErrInvalidID marks a direction id that cannot name an output directory.
var ErrInvalidID = errors.New("invalid direction id")

var fallbackPrimary = color.NRGBA{R: 40, G: 40, B: 40, A: 255}

type slot struct {
	once sync.Once
	img  image.Image
	err  error
}

// Direction is one brand option and its generated asset bundle. It is
// read-only after construction; decoded images are loaded once and shared by
// every task that uses the direction.
type Direction struct {
	ID      string
	Name    string
	Website string
	Palette []Swatch
	Paths   map[Kind]string

	slots       map[Kind]*slot
	primaryOnce sync.Once
	primary     color.NRGBA
}

func New(meta Metadata, paths map[Kind]string) (*Direction, error) {
	id := strings.TrimSpace(meta.ID)
	if id == "" {
		return nil, fmt.Errorf("direction id is empty")
	}
	if !validID(id) {
		return nil, fmt.Errorf("direction id %q: %w", id, ErrInvalidID)
	}
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		name = id
	}

	palette := make([]Swatch, 0, len(meta.Colors))
	for i, entry := range meta.Colors {
		c, err := ParseHex(entry.Hex)
		if err != nil {
			return nil, fmt.Errorf("direction %s color %d: %w", id, i, err)
		}
		role := strings.ToLower(strings.TrimSpace(entry.Role))
		if role == "" {
			role = fmt.Sprintf("color_%d", i+1)
		}
		palette = append(palette, Swatch{Role: role, Color: c})
	}

	d := &Direction{
		ID:      id,
		Name:    name,
		Website: strings.TrimSpace(meta.Website),
		Palette: palette,
		Paths:   make(map[Kind]string, len(paths)),
		slots:   make(map[Kind]*slot, len(Kinds())),
	}
	for k, p := range paths {
		d.Paths[k] = p
	}
	for _, k := range Kinds() {
		d.slots[k] = &slot{}
	}
	return d, nil
}

// validID reports whether id is a single path element. Ids end up as
// directory names under the output root.
func validID(id string) bool {
	if id == "." || id == ".." || strings.Contains(id, "..") {
		return false
	}
	return !strings.ContainsAny(id, `/\:`) && filepath.Base(id) == id
}

// Image returns the decoded asset of the given kind. Derived logo variants
// are produced from the raw logo when their own file is missing.
func (d *Direction) Image(k Kind) (image.Image, error) {
	s, ok := d.slots[k]
	if !ok {
		return nil, fmt.Errorf("unknown asset kind %q", k)
	}
	s.once.Do(func() {
		s.img, s.err = d.load(k)
	})
	return s.img, s.err
}

func (d *Direction) load(k Kind) (image.Image, error) {
	img, err := asset.Open(d.Paths[k])
	if err == nil {
		return img, nil
	}

	switch k {
	case KindLogoTransparent:
		logo, lerr := d.Image(KindLogo)
		if lerr != nil {
			return nil, lerr
		}
		return asset.RemoveNearWhite(logo, asset.DefaultWhiteThreshold), nil
	case KindLogoWhite:
		base, berr := d.Image(KindLogoTransparent)
		if berr != nil {
			return nil, berr
		}
		return asset.Recolor(base, sampler.White), nil
	case KindLogoBlack:
		base, berr := d.Image(KindLogoTransparent)
		if berr != nil {
			return nil, berr
		}
		return asset.Recolor(base, sampler.NearBlack), nil
	}
	return nil, err
}

// LogoOn picks the logo variant that stays legible on fill.
func (d *Direction) LogoOn(fill color.NRGBA) (image.Image, error) {
	if sampler.IsDark(fill) {
		return d.Image(KindLogoWhite)
	}
	return d.Image(KindLogoBlack)
}

func (d *Direction) Color(role string) (color.NRGBA, bool) {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, s := range d.Palette {
		if s.Role == role {
			return s.Color, true
		}
	}
	return color.NRGBA{}, false
}

// Primary is the first palette entry, or the logo's dominant colour when the
// bundle carries no palette.
func (d *Direction) Primary() color.NRGBA {
	d.primaryOnce.Do(func() {
		if len(d.Palette) > 0 {
			d.primary = d.Palette[0].Color
			return
		}
		d.primary = fallbackPrimary
		if logo, err := d.Image(KindLogoTransparent); err == nil {
			c := dominantcolor.Find(logo)
			d.primary = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
	})
	return d.primary
}

// Secondary is the second palette entry, or the primary blended a third of
// the way towards its contrasting tone in Lab space.
func (d *Direction) Secondary() color.NRGBA {
	if len(d.Palette) > 1 {
		return d.Palette[1].Color
	}
	p := d.Primary()
	return blendLab(p, sampler.Contrasting(p), 0.35)
}

func (d *Direction) Accent() color.NRGBA {
	if len(d.Palette) > 2 {
		return d.Palette[2].Color
	}
	return d.Secondary()
}

func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse hex %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

func blendLab(a, b color.NRGBA, t float64) color.NRGBA {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: 255}
}

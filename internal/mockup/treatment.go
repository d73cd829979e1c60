package mockup

import (
	"image"
	"image/color"
	"math"

	"mockup-compositor/internal/asset"
	"mockup-compositor/internal/brand"
	"mockup-compositor/internal/composite"
	"mockup-compositor/internal/sampler"
	"mockup-compositor/internal/zone"
)

type FillMode int

const (
	// FillSampled repaints the zone with the median colour around it.
	FillSampled FillMode = iota
	FillPrimary
	FillSecondary
	// FillBackground cover-fills the zone with the direction background.
	FillBackground
	// FillPattern tiles the direction pattern across the zone.
	FillPattern
)

type TextColor int

const (
	// TextContrast picks white or near-black against the zone fill.
	TextContrast TextColor = iota
	// TextPrimary uses the primary colour unless it is illegible on the fill.
	TextPrimary
	TextAccent
)

type TextSource int

const (
	TextName TextSource = iota
	TextWebsite
)

type LogoVariant int

const (
	// LogoAuto picks the white or black variant by fill brightness.
	LogoAuto LogoVariant = iota
	LogoTransparent
	LogoOriginal
)

type LogoStyle struct {
	Fill    FillMode
	Variant LogoVariant
	Ratio   float64
	Opacity float64
	Shadow  bool
	// Rounded is the corner radius ratio applied to the fitted logo. Zero
	// leaves the corners alone.
	Rounded float64
}

type TextStyle struct {
	Fill    FillMode
	Color   TextColor
	Source  TextSource
	MaxSize float64
	Shadow  bool
}

type SurfaceStyle struct {
	Fill FillMode
	// TileRows controls how many pattern tiles span the zone height.
	TileRows int
}

// Treatment is a declarative description of how a template's zones are
// painted. Fabric is the strength at which the template's own shading is
// multiplied back over every treated zone.
type Treatment struct {
	Logo    LogoStyle
	Text    TextStyle
	Surface SurfaceStyle
	Fabric  float64
}

const (
	defaultLogoRatio = 0.8
	// legibleDelta is the minimum brightness gap for a brand colour to be
	// used on a fill without switching to the contrast tone.
	legibleDelta = 96
)

// GenericTreatment is applied to templates without a registered handler.
var GenericTreatment = Treatment{
	Logo:    LogoStyle{Fill: FillSampled, Variant: LogoAuto, Ratio: defaultLogoRatio, Opacity: 1},
	Text:    TextStyle{Fill: FillSampled, Color: TextContrast, Source: TextName},
	Surface: SurfaceStyle{Fill: FillPrimary},
}

type treatmentHandler struct {
	studio *Studio
	t      Treatment
}

// Handler returns a Handler that paints zones according to t.
func (s *Studio) Handler(t Treatment) Handler {
	return &treatmentHandler{studio: s, t: t}
}

// Apply paints surfaces first, then text, then logos, so foreground zones
// sample a surrounding that already carries the brand surface.
func (h *treatmentHandler) Apply(canvas *image.NRGBA, original image.Image, dir *brand.Direction, zones zone.Set) (Summary, error) {
	var out Summary
	for _, role := range []zone.Role{zone.RoleSurface, zone.RoleText, zone.RoleLogo} {
		for _, z := range zones.Zones {
			if !z.Present || z.Marker.Role != role {
				continue
			}
			var degraded bool
			switch role {
			case zone.RoleSurface:
				degraded = h.surface(canvas, dir, z)
			case zone.RoleText:
				degraded = h.text(canvas, dir, z)
			case zone.RoleLogo:
				degraded = h.logo(canvas, dir, z)
			}
			if h.t.Fabric > 0 {
				composite.FabricBlend(canvas, original, z.Mask, h.t.Fabric)
			}
			out = append(out, label(role, degraded))
		}
	}
	return out, nil
}

func (h *treatmentHandler) surface(canvas *image.NRGBA, dir *brand.Direction, z zone.Zone) bool {
	_, degraded := h.fill(canvas, dir, z, h.t.Surface.Fill, FillPrimary)
	return degraded
}

func (h *treatmentHandler) text(canvas *image.NRGBA, dir *brand.Direction, z zone.Zone) bool {
	st := h.t.Text
	fill, degraded := h.fill(canvas, dir, z, st.Fill, FillSampled)

	text := dir.Name
	if st.Source == TextWebsite && dir.Website != "" {
		text = dir.Website
	}
	maxSize := st.MaxSize
	if maxSize <= 0 {
		maxSize = float64(z.Box.H())
	}

	layer, _, err := h.studio.typeface.AutoSizedText(text, image.Pt(z.Box.W(), z.Box.H()), textColor(st.Color, dir, fill), maxSize)
	if err != nil {
		h.studio.logger.Warn("text render failed", "direction", dir.ID, "err", err)
		return true
	}
	at := image.Pt(z.Box.X1, z.Box.Y1)
	if st.Shadow {
		composite.PasteWithShadow(canvas, layer, at, composite.DefaultShadow, z.Mask)
	} else {
		composite.ClipPaste(canvas, layer, at, z.Mask)
	}
	return degraded
}

func (h *treatmentHandler) logo(canvas *image.NRGBA, dir *brand.Direction, z zone.Zone) bool {
	st := h.t.Logo
	fill, degraded := h.fill(canvas, dir, z, st.Fill, FillSampled)

	img, kind, err := logoFor(st.Variant, dir, fill)
	if err != nil {
		h.studio.assetUnavailable(dir, kind, err)
		return true
	}

	ratio := st.Ratio
	if ratio <= 0 {
		ratio = defaultLogoRatio
	}
	fitted := asset.Fit(img, z.Box.W(), z.Box.H(), ratio)
	if st.Rounded > 0 {
		fitted = composite.RoundedClip(fitted, st.Rounded)
	}
	if st.Opacity > 0 && st.Opacity < 1 {
		fitted = asset.Opacity(fitted, st.Opacity)
	}

	at := composite.CenterIn(z.Box, fitted.Bounds().Size())
	if st.Shadow {
		composite.PasteWithShadow(canvas, fitted, at, composite.DefaultShadow, z.Mask)
	} else {
		composite.ClipPaste(canvas, fitted, at, z.Mask)
	}
	return degraded
}

// fill paints the zone and returns the colour foreground content should
// contrast with. When the mode needs an asset that is unavailable the zone
// is painted with fallback instead and degraded is true.
func (h *treatmentHandler) fill(canvas *image.NRGBA, dir *brand.Direction, z zone.Zone, mode, fallback FillMode) (color.NRGBA, bool) {
	switch mode {
	case FillBackground, FillPattern:
		kind := brand.KindBackground
		if mode == FillPattern {
			kind = brand.KindPattern
		}
		img, err := dir.Image(kind)
		if err != nil {
			h.studio.assetUnavailable(dir, kind, err)
			c, _ := h.fill(canvas, dir, z, fallback, FillSampled)
			return c, true
		}
		if mode == FillPattern {
			rows := h.t.Surface.TileRows
			if rows <= 0 {
				rows = 4
			}
			composite.TileFill(canvas, img, z.Mask, z.Box, max(8, z.Box.H()/rows), dir.Primary())
		} else {
			composite.CoverFill(canvas, img, z.Mask, z.Box, dir.Primary())
		}
		return maskMean(canvas, z.Mask), false
	case FillPrimary:
		c := dir.Primary()
		composite.FillMask(canvas, z.Mask, c)
		return c, false
	case FillSecondary:
		c := dir.Secondary()
		composite.FillMask(canvas, z.Mask, c)
		return c, false
	default:
		c := sampler.SampleSurrounding(canvas, z.Mask, h.studio.border)
		composite.FillMask(canvas, z.Mask, c)
		return c, false
	}
}

func logoFor(v LogoVariant, dir *brand.Direction, fill color.NRGBA) (image.Image, brand.Kind, error) {
	switch v {
	case LogoTransparent:
		img, err := dir.Image(brand.KindLogoTransparent)
		return img, brand.KindLogoTransparent, err
	case LogoOriginal:
		img, err := dir.Image(brand.KindLogo)
		return img, brand.KindLogo, err
	}
	kind := brand.KindLogoBlack
	if sampler.IsDark(fill) {
		kind = brand.KindLogoWhite
	}
	img, err := dir.LogoOn(fill)
	return img, kind, err
}

func textColor(policy TextColor, dir *brand.Direction, fill color.NRGBA) color.NRGBA {
	var c color.NRGBA
	switch policy {
	case TextPrimary:
		c = dir.Primary()
	case TextAccent:
		c = dir.Accent()
	default:
		return sampler.Contrasting(fill)
	}
	if math.Abs(sampler.Brightness(c)-sampler.Brightness(fill)) < legibleDelta {
		return sampler.Contrasting(fill)
	}
	return c
}

func maskMean(img *image.NRGBA, m *zone.Mask) color.NRGBA {
	var r, g, b, n int
	m.Each(func(x, y int) {
		if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
			return
		}
		i := img.PixOffset(x, y)
		r += int(img.Pix[i])
		g += int(img.Pix[i+1])
		b += int(img.Pix[i+2])
		n++
	})
	if n == 0 {
		return sampler.Neutral
	}
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}

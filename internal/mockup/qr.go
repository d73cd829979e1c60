package mockup

import (
	"image"

	"mockup-compositor/internal/brand"
	"mockup-compositor/internal/composite"
	"mockup-compositor/internal/sampler"
	"mockup-compositor/internal/zone"
)

const qrRatio = 0.8

// qrHandler wraps another handler and renders the direction website as a QR
// code into the TEXT zone. Without a website the inner handler treats the
// zone as usual.
type qrHandler struct {
	studio *Studio
	inner  Handler
}

func (s *Studio) WithQR(inner Handler) Handler {
	return &qrHandler{studio: s, inner: inner}
}

func (h *qrHandler) Apply(canvas *image.NRGBA, original image.Image, dir *brand.Direction, zones zone.Set) (Summary, error) {
	textZone, ok := zones.Role(zone.RoleText)
	if !ok || dir.Website == "" {
		return h.inner.Apply(canvas, original, dir, zones)
	}

	rest := zone.Set{Width: zones.Width, Height: zones.Height}
	for _, z := range zones.Zones {
		if z.Marker.Role != zone.RoleText {
			rest.Zones = append(rest.Zones, z)
		}
	}
	summary, err := h.inner.Apply(canvas, original, dir, rest)
	if err != nil {
		return summary, err
	}

	fill := sampler.SampleSurrounding(canvas, textZone.Mask, h.studio.border)
	composite.FillMask(canvas, textZone.Mask, fill)

	side := int(qrRatio * float64(min(textZone.Box.W(), textZone.Box.H())))
	code, err := composite.QRCode(dir.Website, max(side, 21), sampler.Contrasting(fill), fill)
	if err != nil {
		h.studio.logger.Warn("qr render failed", "direction", dir.ID, "err", err)
		return append(summary, label(zone.RoleText, true)), nil
	}
	composite.PlaceCentered(canvas, code, textZone.Box, textZone.Mask)
	return append(summary, label(zone.RoleText, false)), nil
}

package mockup

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"mockup-compositor/internal/asset"
	"mockup-compositor/internal/brand"
	"mockup-compositor/internal/composite"
	"mockup-compositor/internal/sampler"
	"mockup-compositor/internal/zone"
)

// Handler applies one template's creative treatment to a canvas cloned from
// that template. Implementations must not retain canvas or mutate original.
type Handler interface {
	Apply(canvas *image.NRGBA, original image.Image, dir *brand.Direction, zones zone.Set) (Summary, error)
}

type HandlerFunc func(canvas *image.NRGBA, original image.Image, dir *brand.Direction, zones zone.Set) (Summary, error)

func (f HandlerFunc) Apply(canvas *image.NRGBA, original image.Image, dir *brand.Direction, zones zone.Set) (Summary, error) {
	return f(canvas, original, dir, zones)
}

// Summary lists the zones a handler treated, e.g. "LOGO", "TEXT (filled)".
type Summary []string

const NoZones = "no zones"

func (s Summary) String() string {
	if len(s) == 0 {
		return NoZones
	}
	return strings.Join(s, ", ")
}

type StudioOptions struct {
	Typeface     *composite.Typeface
	SampleBorder int
	Logger       *slog.Logger
}

// Studio carries the shared, read-only tools every handler draws with.
type Studio struct {
	typeface *composite.Typeface
	border   int
	logger   *slog.Logger
}

func NewStudio(opts StudioOptions) (*Studio, error) {
	tf := opts.Typeface
	if tf == nil {
		var err error
		tf, err = composite.DefaultTypeface()
		if err != nil {
			return nil, err
		}
	}
	border := opts.SampleBorder
	if border <= 0 {
		border = sampler.DefaultBorder
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Studio{typeface: tf, border: border, logger: logger}, nil
}

// assetUnavailable logs a degraded step. Missing files are expected and only
// logged at debug level.
func (s *Studio) assetUnavailable(dir *brand.Direction, k brand.Kind, err error) {
	if errors.Is(err, asset.ErrMissing) {
		s.logger.Debug("asset missing, degrading", "direction", dir.ID, "kind", string(k))
		return
	}
	s.logger.Warn("asset unusable, degrading", "direction", dir.ID, "kind", string(k), "err", err)
}

func label(role zone.Role, degraded bool) string {
	if degraded {
		return fmt.Sprintf("%s (filled)", role)
	}
	return role.String()
}

package mockup

import "sort"

// treatments holds the art direction for every template shipped with the
// mockup set. Keys are template identifiers.
var treatments = map[string]Treatment{
	"tshirt": {
		Logo:    LogoStyle{Fill: FillSampled, Variant: LogoAuto, Ratio: 0.75, Opacity: 0.95},
		Text:    TextStyle{Fill: FillSampled, Color: TextContrast},
		Surface: SurfaceStyle{Fill: FillPrimary},
		Fabric:  0.6,
	},
	"hoodie": {
		Logo:    LogoStyle{Fill: FillSampled, Variant: LogoAuto, Ratio: 0.7, Opacity: 0.92},
		Text:    TextStyle{Fill: FillSampled, Color: TextContrast},
		Surface: SurfaceStyle{Fill: FillSecondary},
		Fabric:  0.7,
	},
	"tote_bag": {
		Logo:    LogoStyle{Fill: FillSampled, Variant: LogoAuto, Ratio: 0.8},
		Text:    TextStyle{Fill: FillSampled, Color: TextPrimary},
		Surface: SurfaceStyle{Fill: FillPattern, TileRows: 3},
		Fabric:  0.5,
	},
	"wall_poster": {
		Logo:    LogoStyle{Fill: FillSampled, Variant: LogoAuto, Ratio: 0.6, Shadow: true},
		Text:    TextStyle{Fill: FillSampled, Color: TextContrast, Shadow: true},
		Surface: SurfaceStyle{Fill: FillBackground},
	},
	"billboard": {
		Logo:    LogoStyle{Fill: FillPrimary, Variant: LogoAuto, Ratio: 0.65, Shadow: true},
		Text:    TextStyle{Fill: FillPrimary, Color: TextContrast, Shadow: true},
		Surface: SurfaceStyle{Fill: FillBackground},
	},
	"business_card": {
		Logo:    LogoStyle{Fill: FillSampled, Variant: LogoAuto, Ratio: 0.7},
		Text:    TextStyle{Fill: FillSampled, Color: TextPrimary},
		Surface: SurfaceStyle{Fill: FillPrimary},
	},
	"business_card_back": {
		Logo:    LogoStyle{Fill: FillSampled, Variant: LogoAuto, Ratio: 0.5},
		Text:    TextStyle{Fill: FillSampled, Color: TextContrast, Source: TextWebsite},
		Surface: SurfaceStyle{Fill: FillSecondary},
	},
	"coffee_cup": {
		Logo:    LogoStyle{Fill: FillSampled, Variant: LogoAuto, Ratio: 0.65, Opacity: 0.92},
		Text:    TextStyle{Fill: FillSampled, Color: TextAccent},
		Surface: SurfaceStyle{Fill: FillPrimary},
		Fabric:  0.35,
	},
	"storefront_sign": {
		Logo:    LogoStyle{Fill: FillPrimary, Variant: LogoAuto, Ratio: 0.75, Shadow: true},
		Text:    TextStyle{Fill: FillPrimary, Color: TextContrast, Shadow: true},
		Surface: SurfaceStyle{Fill: FillSecondary},
	},
	"phone_case": {
		Logo:    LogoStyle{Fill: FillSampled, Variant: LogoOriginal, Ratio: 0.55, Rounded: 0.22},
		Text:    TextStyle{Fill: FillSampled, Color: TextContrast},
		Surface: SurfaceStyle{Fill: FillPattern, TileRows: 5},
		Fabric:  0.25,
	},
	"notebook": {
		Logo:    LogoStyle{Fill: FillSampled, Variant: LogoTransparent, Ratio: 0.6, Opacity: 0.85},
		Text:    TextStyle{Fill: FillSampled, Color: TextPrimary},
		Surface: SurfaceStyle{Fill: FillBackground},
		Fabric:  0.3,
	},
}

// qrTemplates get the website QR code in their TEXT zone.
var qrTemplates = map[string]bool{
	"business_card_back": true,
}

// DefaultRegistry returns a registry with every catalogue template
// registered and the generic treatment as fallback.
func DefaultRegistry(s *Studio) *Registry {
	r := NewRegistry(s.Handler(GenericTreatment))
	for id, t := range treatments {
		h := s.Handler(t)
		if qrTemplates[id] {
			h = s.WithQR(h)
		}
		r.Register(id, h)
	}
	return r
}

// CatalogIDs lists the identifiers of the built-in treatments.
func CatalogIDs() []string {
	out := make([]string, 0, len(treatments))
	for id := range treatments {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

package zone

import "image/color"

type Role int

const (
	RoleLogo Role = iota
	RoleText
	RoleSurface
)

func (r Role) String() string {
	switch r {
	case RoleLogo:
		return "LOGO"
	case RoleText:
		return "TEXT"
	case RoleSurface:
		return "SURFACE"
	default:
		return "UNKNOWN"
	}
}

// Marker is a reserved flat colour painted into a template by the upstream
// placeholder authoring step.
type Marker struct {
	Name string
	RGB  color.NRGBA
	Role Role
}

var (
	Magenta = Marker{Name: "magenta", RGB: color.NRGBA{R: 255, G: 0, B: 255, A: 255}, Role: RoleLogo}
	Cyan    = Marker{Name: "cyan", RGB: color.NRGBA{R: 0, G: 255, B: 255, A: 255}, Role: RoleText}
	Yellow  = Marker{Name: "yellow", RGB: color.NRGBA{R: 255, G: 255, B: 0, A: 255}, Role: RoleSurface}
)

// DefaultMarkers returns the marker convention shared with placeholder authoring.
func DefaultMarkers() []Marker {
	return []Marker{Magenta, Cyan, Yellow}
}

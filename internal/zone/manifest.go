package zone

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type ManifestZone struct {
	Marker string `json:"marker"`
	Role   string `json:"role"`
	Pixels int    `json:"pixels"`
	Box    [4]int `json:"bbox"`
}

type ManifestTemplate struct {
	ID     string         `json:"id"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Zones  []ManifestZone `json:"zones"`
}

// Manifest records which zones each template carries, for diagnostics.
type Manifest struct {
	Tolerance int                `json:"tolerance"`
	MinPixels int                `json:"min_pixels"`
	Templates []ManifestTemplate `json:"templates"`
}

func NewManifest(d *Detector) *Manifest {
	return &Manifest{Tolerance: d.tolerance, MinPixels: d.minPixels}
}

// Add records the present zones of one template, replacing an earlier entry
// with the same id.
func (m *Manifest) Add(id string, set Set) {
	entry := ManifestTemplate{ID: id, Width: set.Width, Height: set.Height, Zones: []ManifestZone{}}
	for _, z := range set.Zones {
		if !z.Present {
			continue
		}
		entry.Zones = append(entry.Zones, ManifestZone{
			Marker: z.Marker.Name,
			Role:   z.Marker.Role.String(),
			Pixels: z.Mask.Count(),
			Box:    [4]int{z.Box.X1, z.Box.Y1, z.Box.X2, z.Box.Y2},
		})
	}

	for i, t := range m.Templates {
		if t.ID == id {
			m.Templates[i] = entry
			return
		}
	}
	m.Templates = append(m.Templates, entry)
	sort.Slice(m.Templates, func(i, j int) bool { return m.Templates[i].ID < m.Templates[j].ID })
}

func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return os.Rename(tmp, path)
}

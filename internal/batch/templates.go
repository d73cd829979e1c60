package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mockup-compositor/internal/mockup"
)

// Template is one source mockup raster on disk.
type Template struct {
	ID   string
	Path string
}

var templateExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// DiscoverTemplates lists the raster files directly under dir, sorted by
// identifier. When two files share an identifier the first by name wins.
func DiscoverTemplates(dir string) ([]Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read templates dir: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	out := make([]Template, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !templateExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		id := mockup.NormalizeID(e.Name())
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Template{ID: id, Path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

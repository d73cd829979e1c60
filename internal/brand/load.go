package brand

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const MetadataFile = "direction.json"

type ColorEntry struct {
	Role string `json:"role"`
	Hex  string `json:"hex"`
}

// Metadata is the direction record written next to the generated assets.
type Metadata struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Website string            `json:"website,omitempty"`
	Colors  []ColorEntry      `json:"colors"`
	Assets  map[string]string `json:"assets,omitempty"`
}

var assetExts = []string{".png", ".webp", ".jpg", ".jpeg"}

// Load reads one direction bundle directory. The metadata file is optional;
// without it the directory name is the id.
func Load(dir string) (*Direction, error) {
	var meta Metadata
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Join(dir, MetadataFile), err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if strings.TrimSpace(meta.ID) == "" {
		meta.ID = filepath.Base(filepath.Clean(dir))
	}

	paths := make(map[Kind]string, len(Kinds()))
	for _, k := range Kinds() {
		if p := strings.TrimSpace(meta.Assets[string(k)]); p != "" {
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			paths[k] = p
			continue
		}
		if p := findAsset(dir, string(k)); p != "" {
			paths[k] = p
		}
	}

	return New(meta, paths)
}

// LoadAll loads every bundle directory under root, sorted by id. Bundles that
// fail to load are reported in the joined error and skipped.
func LoadAll(root string) ([]*Direction, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var (
		out  []*Direction
		errs []error
		seen = make(map[string]string)
	)
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, e.Name())
		d, err := Load(dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, dup := seen[d.ID]; dup {
			errs = append(errs, fmt.Errorf("direction id %q in %s already used by %s", d.ID, dir, prev))
			continue
		}
		seen[d.ID] = dir
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, errors.Join(errs...)
}

func findAsset(dir, stem string) string {
	for _, ext := range assetExts {
		p := filepath.Join(dir, stem+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

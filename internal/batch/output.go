package batch

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const jpegQuality = 95

// encode writes the canvas in the template's own format. WEBP has no encoder
// in the stack, so those outputs become PNG.
func encode(canvas image.Image, templatePath string) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(templatePath))
	var (
		buf bytes.Buffer
		err error
	)
	switch ext {
	case ".jpg", ".jpeg":
		err = imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	default:
		ext = ".png"
		err = imaging.Encode(&buf, canvas, imaging.PNG)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", ext, err)
	}
	return buf.Bytes(), ext, nil
}

// OutputPath is where the composite for (directionID, templateID) lands.
func OutputPath(root, directionID, templateID, ext string) string {
	return filepath.Join(root, directionID, templateID+"__"+directionID+ext)
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

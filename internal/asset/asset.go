package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrMissing marks an asset that is absent or empty. Callers degrade the step
// that needed it instead of failing.
var ErrMissing = errors.New("asset missing")

func Open(path string) (image.Image, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: no path", ErrMissing)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, err
	}
	if info.IsDir() || info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMissing, path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes PNG, JPEG or WEBP bytes.
func Decode(raw []byte) (image.Image, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty image data")
	}
	return imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
}

package composite

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

// QRCode renders content as a square QR code of the given side length.
func QRCode(content string, size int, fg, bg color.NRGBA) (*image.NRGBA, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	q.ForegroundColor = fg
	q.BackgroundColor = bg
	q.DisableBorder = true

	img := q.Image(size)
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		return imaging.Resize(img, size, size, imaging.NearestNeighbor), nil
	}
	return imaging.Clone(img), nil
}

package media

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"

	"github.com/salonsuite/salon-scheduler/internal/httperr"
)

const webpQuality = 85

// ProcessProfilePhoto decodes an uploaded JPEG/PNG, downscales it to at
// most maxWidth (preserving aspect ratio) and re-encodes as webp.
func ProcessProfilePhoto(r io.Reader, maxWidth int) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, httperr.Validation("invalid_image", "Photo must be a valid JPEG or PNG.")
	}

	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, httperr.Storage("photo_encode_failed", err)
	}

	return buf.Bytes(), nil
}

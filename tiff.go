package gainmap

import (
	"bytes"
	"image"

	_ "golang.org/x/image/tiff"

	"github.com/pkg/errors"
)

// DecodeTIFF decodes a TIFF image into an RGBImage suitable as the base or
// alternate rendition for the Compute Engine. It supports whatever
// golang.org/x/image/tiff's decoder supports (8/16-bit integer TIFFs).
func DecodeTIFF(data []byte) (*RGBImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decoding TIFF")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "invalid TIFF dimensions")
	}
	return rgbImageFromImage(img, FormatRGB, 16), nil
}

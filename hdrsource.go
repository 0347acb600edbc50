package gainmap

import (
	"image"
	"image/color"
	"io"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/pkg/errors"
)

// DecodeRadianceHDR reads a Radiance .hdr (RGBE) file into an RGBImage
// whose samples are scene-linear, suitable as the alternate image fed to
// the Compute Engine. Values above 1.0 are preserved rather than clamped.
func DecodeRadianceHDR(r io.Reader) (*RGBImage, error) {
	img, err := rgbe.Decode(r)
	if err != nil {
		return nil, err
	}
	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return nil, errors.New("gainmap: decoded Radiance HDR image does not expose HDR samples")
	}
	return rgbImageFromHDRImage(hdrImg)
}

// EncodeRadianceHDR writes img, interpreted as scene-linear RGB, as a
// Radiance .hdr (RGBE) file.
func EncodeRadianceHDR(w io.Writer, img *RGBImage) error {
	return rgbe.Encode(w, hdrImageAdapter{img})
}

func rgbImageFromHDRImage(img hdr.Image) (*RGBImage, error) {
	b := img.Bounds()
	out := NewRGBImage(b.Dx(), b.Dy(), FormatRGB)
	out.Depth = 32
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c, ok := img.HDRAt(b.Min.X+x, b.Min.Y+y).(hdrcolor.RGB)
			if !ok {
				continue
			}
			out.SetRGBAAt(x, y, float32(c.R), float32(c.G), float32(c.B), 1)
		}
	}
	return out, nil
}

// hdrImageAdapter exposes an RGBImage as hdr.Image for rgbe.Encode, which
// only knows this package's samples through the hdrcolor.Color interface.
type hdrImageAdapter struct {
	img *RGBImage
}

func (a hdrImageAdapter) ColorModel() color.Model { return hdrcolor.RGBModel }

func (a hdrImageAdapter) Bounds() image.Rectangle {
	return image.Rect(0, 0, a.img.Width, a.img.Height)
}

func (a hdrImageAdapter) Size() int {
	return a.img.Width * a.img.Height
}

func (a hdrImageAdapter) At(x, y int) color.Color {
	return a.HDRAt(x, y)
}

func (a hdrImageAdapter) HDRAt(x, y int) hdrcolor.Color {
	r, g, b, _ := a.img.RGBAAt(x, y)
	return hdrcolor.RGB{R: float64(r), G: float64(g), B: float64(b)}
}

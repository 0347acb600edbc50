package gainmap

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Rescaler resizes an RGBImage to new dimensions. The Apply Engine calls it
// when the gain map's dimensions do not match the base image's, and the
// Compute Engine calls it when producing a gain map smaller than its
// inputs. Implementations need not preserve Depth or Format beyond what
// NewRGBImage already guarantees.
type Rescaler interface {
	Rescale(img *RGBImage, newWidth, newHeight int) (*RGBImage, error)
}

// rgbImageAdapter exposes an RGBImage as a stdlib image.Image so it can be
// driven through image/draw and nfnt/resize, neither of which knows about
// this package's float32 pixel format.
type rgbImageAdapter struct {
	img *RGBImage
}

func (a rgbImageAdapter) ColorModel() color.Model { return color.NRGBA64Model }
func (a rgbImageAdapter) Bounds() image.Rectangle {
	return image.Rect(0, 0, a.img.Width, a.img.Height)
}
func (a rgbImageAdapter) At(x, y int) color.Color {
	r, g, b, al := a.img.RGBAAt(x, y)
	return color.NRGBA64{
		R: uint16(clamp01(r) * 65535),
		G: uint16(clamp01(g) * 65535),
		B: uint16(clamp01(b) * 65535),
		A: uint16(clamp01(al) * 65535),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RGBImageFromImage converts any stdlib image.Image into an RGBImage with
// 8-bit nominal depth, the bridge codec-facing callers use to hand a
// decoded JPEG/PNG/TIFF to ApplyRGB/ComputeRGB.
func RGBImageFromImage(src image.Image) *RGBImage {
	return rgbImageFromImage(src, FormatRGB, 8)
}

// ImageFromRGBImage exposes img as a stdlib image.Image, the bridge
// codec-facing callers use to hand ApplyRGB/ComputeRGB's output to an
// image/jpeg or image/png encoder.
func ImageFromRGBImage(img *RGBImage) image.Image {
	return rgbImageAdapter{img}
}

func rgbImageFromImage(src image.Image, format PixelFormat, depth int) *RGBImage {
	b := src.Bounds()
	out := NewRGBImage(b.Dx(), b.Dy(), format)
	out.Depth = depth
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.SetRGBAAt(x, y, float32(r)/65535, float32(g)/65535, float32(bl)/65535, float32(a)/65535)
		}
	}
	return out
}

// NFNTRescaler rescales using github.com/nfnt/resize's Lanczos3 kernel. It
// is the default Rescaler for the Apply Engine's gain-map upsample, which
// favors a smooth kernel over speed since it runs once per output image.
type NFNTRescaler struct{}

func (NFNTRescaler) Rescale(img *RGBImage, newWidth, newHeight int) (*RGBImage, error) {
	resized := resize.Resize(uint(newWidth), uint(newHeight), rgbImageAdapter{img}, resize.Lanczos3)
	return rgbImageFromImage(resized, img.Format, img.Depth), nil
}

// DrawRescaler rescales using golang.org/x/image/draw's Catmull-Rom
// scaler. The Compute Engine uses it for the optional final downsample of
// a freshly computed gain map, where x/image/draw's tight integration with
// image.RGBA avoids an extra color-model conversion.
type DrawRescaler struct{}

func (DrawRescaler) Rescale(img *RGBImage, newWidth, newHeight int) (*RGBImage, error) {
	src := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.RGBAAt(x, y)
			src.SetRGBA(x, y, color.RGBA{
				R: uint8(clamp01(r) * 255), G: uint8(clamp01(g) * 255),
				B: uint8(clamp01(b) * 255), A: uint8(clamp01(a) * 255),
			})
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return rgbImageFromImage(dst, img.Format, img.Depth), nil
}

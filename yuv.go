package gainmap

import (
	"image/color"

	"github.com/pkg/errors"
)

// YUVConverter converts between an opaque planar YUV image and the packed
// RGBImage this package operates on. Container formats and planar layouts
// are out of scope here; a caller supplies whatever concrete YUV
// representation its codec uses behind this interface.
type YUVConverter interface {
	ToRGB(yuv interface{}, matrix MatrixCoefficients, rng YUVRange) (*RGBImage, error)
	FromRGB(img *RGBImage, matrix MatrixCoefficients, rng YUVRange) (interface{}, error)
}

// StdlibYUVConverter converts image/color.YCbCr planes to and from
// RGBImage. It only supports MatrixBT601 and MatrixUnspecified (treated as
// BT601), since image/color.YCbCrToRGB hardcodes the BT.601 matrix; no
// library in the available dependency set offers an arbitrary-matrix YUV
// converter, so BT.709/BT.2020 NCL/Identity conversions are left
// unimplemented rather than silently using the wrong coefficients.
type StdlibYUVConverter struct{}

func (StdlibYUVConverter) ToRGB(yuv interface{}, matrix MatrixCoefficients, rng YUVRange) (*RGBImage, error) {
	img, ok := yuv.(*ycbcrImage)
	if !ok {
		return nil, errors.Wrap(ErrInvalidArgument, "StdlibYUVConverter.ToRGB expects a *ycbcrImage")
	}
	if matrix != MatrixUnspecified && matrix != MatrixBT601 {
		return nil, errors.Wrapf(ErrNotImplemented, "matrix coefficients %d", matrix)
	}
	out := NewRGBImage(img.Width, img.Height, FormatRGB)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := img.at(x, y)
			out.SetRGBAAt(x, y, float32(r)/255, float32(g)/255, float32(b)/255, 1)
		}
	}
	return out, nil
}

func (StdlibYUVConverter) FromRGB(rgb *RGBImage, matrix MatrixCoefficients, rng YUVRange) (interface{}, error) {
	if matrix != MatrixUnspecified && matrix != MatrixBT601 {
		return nil, errors.Wrapf(ErrNotImplemented, "matrix coefficients %d", matrix)
	}
	out := newYCbCrImage(rgb.Width, rgb.Height)
	for y := 0; y < rgb.Height; y++ {
		for x := 0; x < rgb.Width; x++ {
			r, g, b, _ := rgb.RGBAAt(x, y)
			out.set(x, y, uint8(clamp01(r)*255), uint8(clamp01(g)*255), uint8(clamp01(b)*255))
		}
	}
	return out, nil
}

// ycbcrImage is a minimal planar YCbCr 4:4:4 buffer, the concrete type
// StdlibYUVConverter operates on. A real caller wiring its own codec would
// substitute a different interface{} payload understood by its own
// YUVConverter implementation.
type ycbcrImage struct {
	Width, Height int
	Y, Cb, Cr     []uint8
}

func newYCbCrImage(width, height int) *ycbcrImage {
	return &ycbcrImage{
		Width: width, Height: height,
		Y:  make([]uint8, width*height),
		Cb: make([]uint8, width*height),
		Cr: make([]uint8, width*height),
	}
}

func (img *ycbcrImage) set(x, y int, r, g, b uint8) {
	yv, cb, cr := color.RGBToYCbCr(r, g, b)
	idx := y*img.Width + x
	img.Y[idx], img.Cb[idx], img.Cr[idx] = yv, cb, cr
}

func (img *ycbcrImage) at(x, y int) (r, g, b uint8) {
	idx := y*img.Width + x
	return color.YCbCrToRGB(img.Y[idx], img.Cb[idx], img.Cr[idx])
}

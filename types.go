package gainmap

// ColorPrimaries identifies an RGB primary set used for gain-map math and
// rendering. PrimariesUnspecified falls back to doing the math in the base
// image's own primaries.
type ColorPrimaries int

const (
	PrimariesUnspecified ColorPrimaries = iota
	PrimariesBT709
	PrimariesDisplayP3
	PrimariesBT2020
	PrimariesAdobeRGB
)

// TransferCharacteristic identifies a gamma<->linear transfer function.
type TransferCharacteristic int

const (
	TransferUnspecified TransferCharacteristic = iota
	TransferSRGB
	TransferLinear
	TransferPQ
	TransferHLG
)

// MatrixCoefficients identifies the YUV<->RGB matrix used for the alternate
// rendition descriptor; the core never interprets this, it only carries it
// for SameGainMapAltMetadata comparisons and for the YUVConverter seam.
type MatrixCoefficients int

const (
	MatrixUnspecified MatrixCoefficients = iota
	MatrixBT601
	MatrixBT709
	MatrixBT2020NCL
	MatrixIdentity
)

// YUVRange identifies full- or limited-range YUV sample encoding.
type YUVRange int

const (
	RangeFull YUVRange = iota
	RangeLimited
)

// PixelFormat identifies how RGBImage.Pix stores pixels.
type PixelFormat int

const (
	// FormatRGBA stores interleaved R,G,B,A samples.
	FormatRGBA PixelFormat = iota
	// FormatRGB stores interleaved R,G,B samples (alpha implicitly 1).
	FormatRGB
)

// RGBImage is a packed RGB(A) image addressed through RGBAAt/SetRGBAAt, the
// way avifRGBImage is addressed through avifGetRGBAPixel/avifSetRGBAPixel in
// the reference C implementation. Samples are float32 regardless of Depth,
// nominally in [0, 1]; linear-light images (such as DecodeRadianceHDR's
// output or ApplyRGB's non-sRGB output) may hold values above 1. Depth only
// documents what integer depth an external codec would
// round-trip through, which is out of this package's scope.
type RGBImage struct {
	Width, Height int
	// Stride is the number of float32 samples between the start of one row
	// and the next; it may exceed Width*channels() to allow for padding.
	Stride int
	Format PixelFormat
	// Depth is the nominal bit depth this image was decoded from, or will
	// be encoded to (8, 10, 12, 16).
	Depth int
	// Pix holds Height*Stride float32 samples, channel-interleaved.
	Pix []float32
}

// channels returns the number of interleaved channels per pixel.
func (img *RGBImage) channels() int {
	if img.Format == FormatRGBA {
		return 4
	}
	return 3
}

// NewRGBImage allocates a zeroed packed RGBImage of the given dimensions.
func NewRGBImage(width, height int, format PixelFormat) *RGBImage {
	img := &RGBImage{Width: width, Height: height, Format: format, Depth: 8}
	ch := 3
	if format == FormatRGBA {
		ch = 4
	}
	img.Stride = width * ch
	img.Pix = make([]float32, height*img.Stride)
	return img
}

// SameLayout reports whether img and other agree on everything the fast
// copy path in ApplyRGB requires: format, depth, dimensions and stride.
func (img *RGBImage) SameLayout(other *RGBImage) bool {
	return img.Format == other.Format &&
		img.Depth == other.Depth &&
		img.Width == other.Width &&
		img.Height == other.Height &&
		img.Stride == other.Stride
}

// CLLI is content-light-level information: the peak single-pixel luminance
// (MaxCLL) and the peak pixel-average luminance (MaxPALL), both in nits.
type CLLI struct {
	MaxCLL  uint16
	MaxPALL uint16
}

// vec3 is a linear-light RGB triplet used internally by the core math.
// Kept distinct from RGBImage so it is cheap to pass by value through the
// per-pixel loops in apply.go/compute.go.
type vec3 struct {
	R, G, B float32
}

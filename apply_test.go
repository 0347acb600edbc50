package gainmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidRGBImage(w, h int, r, g, b float32) *RGBImage {
	img := NewRGBImage(w, h, FormatRGB)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBAAt(x, y, r, g, b, 1)
		}
	}
	return img
}

func TestApplyRGBRejectsNegativeHeadroom(t *testing.T) {
	base := solidRGBImage(2, 2, 0.5, 0.5, 0.5)
	gm := solidRGBImage(2, 2, 0.5, 0.5, 0.5)
	_, _, err := ApplyRGB(base, PrimariesBT709, TransferSRGB, gm, EncodingDefaults(), -1, nil)
	assert.Error(t, err)
}

func TestApplyRGBRejectsNilInputs(t *testing.T) {
	base := solidRGBImage(2, 2, 0.5, 0.5, 0.5)
	_, _, err := ApplyRGB(base, PrimariesBT709, TransferSRGB, nil, EncodingDefaults(), 0, nil)
	assert.Error(t, err)
}

func TestApplyRGBRejectsInvalidMetadata(t *testing.T) {
	base := solidRGBImage(2, 2, 0.5, 0.5, 0.5)
	gm := solidRGBImage(2, 2, 0.5, 0.5, 0.5)
	bad := EncodingDefaults()
	bad.GainMapGamma[0] = UnsignedFraction{N: 0, D: 1}
	_, _, err := ApplyRGB(base, PrimariesBT709, TransferSRGB, gm, bad, 0, nil)
	assert.Error(t, err)
}

func TestApplyRGBFastPathAtZeroWeightReproducesBase(t *testing.T) {
	base := solidRGBImage(4, 4, 0.25, 0.5, 0.75)
	gm := solidRGBImage(4, 4, 0.5, 0.5, 0.5)
	metadata := EncodingDefaults() // baseHeadroom=0, so hdrHeadroom=0 gives weight 0

	out, clli, err := ApplyRGB(base, PrimariesBT709, TransferSRGB, gm, metadata, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, base.Pix, out.Pix)
	assert.Equal(t, CLLI{}, clli)
}

func TestApplyRGBAtFullWeightAppliesGain(t *testing.T) {
	base := solidRGBImage(4, 4, 0.5, 0.5, 0.5)
	metadata := EncodingDefaults()
	for c := 0; c < 3; c++ {
		metadata.GainMapMin[c] = SignedFraction{N: 0, D: 1}
		metadata.GainMapMax[c] = SignedFraction{N: 2, D: 1}
		metadata.BaseOffset[c] = SignedFraction{N: 0, D: 1}
		metadata.AltOffset[c] = SignedFraction{N: 0, D: 1}
	}
	// Gain map sample 1.0 -> gainLog2 = lerp(0, 2, 1^(1/gamma)) = 2, so the
	// tone-mapped linear value is 2^2 = 4 times the gamma-decoded base.
	gm := solidRGBImage(4, 4, 1, 1, 1)

	out, _, err := ApplyRGB(base, PrimariesBT709, TransferLinear, gm, metadata, 1, nil)
	require.NoError(t, err)
	r, g, b, a := out.RGBAAt(0, 0)
	assert.InDelta(t, 2.0, r, 1e-3)
	assert.InDelta(t, 2.0, g, 1e-3)
	assert.InDelta(t, 2.0, b, 1e-3)
	assert.Equal(t, float32(1), a)
}

func TestApplyRGBPreservesDimensions(t *testing.T) {
	base := solidRGBImage(8, 6, 0.1, 0.2, 0.3)
	gm := solidRGBImage(8, 6, 0.5, 0.5, 0.5)
	out, _, err := ApplyRGB(base, PrimariesBT709, TransferSRGB, gm, EncodingDefaults(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, base.Width, out.Width)
	assert.Equal(t, base.Height, out.Height)
}

func TestApplyRGBRescalesMismatchedGainMap(t *testing.T) {
	base := solidRGBImage(8, 8, 0.5, 0.5, 0.5)
	gm := solidRGBImage(2, 2, 0.5, 0.5, 0.5)
	out, _, err := ApplyRGB(base, PrimariesBT709, TransferSRGB, gm, EncodingDefaults(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Width)
	assert.Equal(t, 8, out.Height)
}

func TestApplyImageRoundTripsThroughYUV(t *testing.T) {
	base := solidRGBImage(4, 4, 0.4, 0.4, 0.4)
	baseYUV, err := StdlibYUVConverter{}.FromRGB(base, MatrixBT601, RangeFull)
	require.NoError(t, err)
	gm := solidRGBImage(4, 4, 0.5, 0.5, 0.5)
	gmYUV, err := StdlibYUVConverter{}.FromRGB(gm, MatrixBT601, RangeFull)
	require.NoError(t, err)

	out, _, err := ApplyImage(baseYUV, MatrixBT601, RangeFull, PrimariesBT709, TransferSRGB,
		gmYUV, MatrixBT601, RangeFull, EncodingDefaults(), 0, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
}

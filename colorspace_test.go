package gainmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorPrimariesComputeRGBToRGBMatrixIdentity(t *testing.T) {
	m, err := colorPrimariesComputeRGBToRGBMatrix(PrimariesBT709, PrimariesBT709)
	require.NoError(t, err)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			want := 0.0
			if row == col {
				want = 1.0
			}
			assert.InDelta(t, want, m.At(row, col), 1e-9)
		}
	}
}

func TestColorPrimariesComputeRGBToRGBMatrixRoundTrip(t *testing.T) {
	forward, err := colorPrimariesComputeRGBToRGBMatrix(PrimariesBT709, PrimariesBT2020)
	require.NoError(t, err)
	backward, err := colorPrimariesComputeRGBToRGBMatrix(PrimariesBT2020, PrimariesBT709)
	require.NoError(t, err)

	white := vec3{R: 1, G: 1, B: 1}
	roundTripped := linearRGBConvertColorSpace(linearRGBConvertColorSpace(white, forward), backward)
	assert.InDelta(t, 1.0, roundTripped.R, 1e-3)
	assert.InDelta(t, 1.0, roundTripped.G, 1e-3)
	assert.InDelta(t, 1.0, roundTripped.B, 1e-3)
}

func TestColorPrimariesComputeRGBToRGBMatrixUnknownPrimaries(t *testing.T) {
	_, err := colorPrimariesComputeRGBToRGBMatrix(PrimariesUnspecified, PrimariesBT709)
	assert.Error(t, err)
}

func TestChooseColorSpaceForGainMapMathSamePrimaries(t *testing.T) {
	p, err := ChooseColorSpaceForGainMapMath(PrimariesBT709, PrimariesBT709)
	require.NoError(t, err)
	assert.Equal(t, PrimariesBT709, p)
}

func TestChooseColorSpaceForGainMapMathPicksWiderGamut(t *testing.T) {
	// BT.2020 is a strict superset of BT.709; converting BT.709's pure
	// primaries into BT.2020 should never go negative, while converting
	// BT.2020's pure primaries into BT.709 does, so BT.2020 should win.
	p, err := ChooseColorSpaceForGainMapMath(PrimariesBT709, PrimariesBT2020)
	require.NoError(t, err)
	assert.Equal(t, PrimariesBT2020, p)
}

func TestColorPrimariesComputeYCoeffsSumToOne(t *testing.T) {
	coeffs, err := colorPrimariesComputeYCoeffs(PrimariesBT709)
	require.NoError(t, err)
	sum := coeffs[0] + coeffs[1] + coeffs[2]
	assert.InDelta(t, 1.0, sum, 1e-4)
	// Green carries the most luma weight under BT.709/sRGB primaries.
	assert.Greater(t, coeffs[1], coeffs[0])
	assert.Greater(t, coeffs[1], coeffs[2])
}

func TestColorPrimariesComputeYCoeffsUnknownPrimaries(t *testing.T) {
	_, err := colorPrimariesComputeYCoeffs(PrimariesUnspecified)
	assert.Error(t, err)
}

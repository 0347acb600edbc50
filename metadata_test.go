package gainmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodingDefaultsValidates(t *testing.T) {
	m := EncodingDefaults()
	require.NoError(t, ValidateMetadata(m))
	assert.True(t, m.UseBaseColorSpace)
	assert.Equal(t, float32(0), m.BaseHdrHeadroom.ToFloat())
	assert.Equal(t, float32(1), m.AlternateHdrHeadroom.ToFloat())
}

func TestValidateMetadataRejectsNil(t *testing.T) {
	assert.Error(t, ValidateMetadata(nil))
}

func TestValidateMetadataRejectsZeroDenominator(t *testing.T) {
	m := EncodingDefaults()
	m.GainMapMin[0].D = 0
	assert.Error(t, ValidateMetadata(m))
}

func TestValidateMetadataRejectsMaxLessThanMin(t *testing.T) {
	m := EncodingDefaults()
	m.GainMapMin[0] = SignedFraction{N: 5, D: 1}
	m.GainMapMax[0] = SignedFraction{N: 1, D: 1}
	assert.Error(t, ValidateMetadata(m))
}

func TestValidateMetadataRejectsZeroGamma(t *testing.T) {
	m := EncodingDefaults()
	m.GainMapGamma[0] = UnsignedFraction{N: 0, D: 1}
	assert.Error(t, ValidateMetadata(m))
}

func TestValidateMetadataRejectsZeroHeadroomDenominator(t *testing.T) {
	m := EncodingDefaults()
	m.BaseHdrHeadroom.D = 0
	assert.Error(t, ValidateMetadata(m))
}

func TestSameGainMapMetadata(t *testing.T) {
	a := EncodingDefaults()
	b := EncodingDefaults()
	assert.True(t, SameGainMapMetadata(a, b))

	b.GainMapMax[1] = SignedFraction{N: 2, D: 1}
	assert.False(t, SameGainMapMetadata(a, b))
}

func TestSameGainMapMetadataNilHandling(t *testing.T) {
	assert.True(t, SameGainMapMetadata(nil, nil))
	assert.False(t, SameGainMapMetadata(EncodingDefaults(), nil))
}

func TestSameGainMapAltMetadata(t *testing.T) {
	a := EncodingDefaults()
	b := EncodingDefaults()
	a.AltColorPrimaries = PrimariesBT709
	b.AltColorPrimaries = PrimariesBT709
	assert.True(t, SameGainMapAltMetadata(a, b))

	b.AltCLLI = CLLI{MaxCLL: 1000}
	assert.False(t, SameGainMapAltMetadata(a, b))
}

func TestAllChannelsIdenticalAndReplicate(t *testing.T) {
	m := EncodingDefaults()
	assert.True(t, allChannelsIdentical(m))

	m.GainMapMax[1] = SignedFraction{N: 3, D: 1}
	assert.False(t, allChannelsIdentical(m))

	m.GainMapMax[0] = SignedFraction{N: 3, D: 1}
	replicateChannelZero(m)
	assert.True(t, allChannelsIdentical(m))
	assert.Equal(t, m.GainMapMax[0], m.GainMapMax[2])
}

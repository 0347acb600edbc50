package gainmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func metadataWithHeadrooms(base, alt float32) *GainMapMetadata {
	m := EncodingDefaults()
	m.BaseHdrHeadroom = UnsignedFraction{N: uint32(base * 1000), D: 1000}
	m.AlternateHdrHeadroom = UnsignedFraction{N: uint32(alt * 1000), D: 1000}
	return m
}

func TestWeightAtEndpoints(t *testing.T) {
	m := metadataWithHeadrooms(0, 4)
	assert.Equal(t, float32(0), Weight(0, m))
	assert.Equal(t, float32(1), Weight(4, m))
	assert.InDelta(t, float32(0.5), Weight(2, m), 1e-6)
}

func TestWeightClampsBeyondRange(t *testing.T) {
	m := metadataWithHeadrooms(0, 4)
	assert.Equal(t, float32(0), Weight(-1, m))
	assert.Equal(t, float32(1), Weight(10, m))
}

func TestWeightEqualHeadroomsIsZero(t *testing.T) {
	m := metadataWithHeadrooms(2, 2)
	assert.Equal(t, float32(0), Weight(2, m))
	assert.Equal(t, float32(0), Weight(5, m))
}

func TestWeightNegatedWhenAltBelowBase(t *testing.T) {
	m := metadataWithHeadrooms(4, 0)
	assert.InDelta(t, float32(-0.5), Weight(2, m), 1e-6)
	assert.Equal(t, float32(0), Weight(4, m))
	assert.Equal(t, float32(-1), Weight(0, m))
}

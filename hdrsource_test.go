package gainmap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadianceHDRRoundTrip(t *testing.T) {
	img := solidRGBImage(4, 4, 1.5, 0.8, 0.2)

	var buf bytes.Buffer
	require.NoError(t, EncodeRadianceHDR(&buf, img))

	decoded, err := DecodeRadianceHDR(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Width, decoded.Width)
	assert.Equal(t, img.Height, decoded.Height)

	r, g, b, _ := decoded.RGBAAt(0, 0)
	// RGBE is an 8-bit-mantissa shared-exponent format: expect a few
	// percent of quantization error, not exact round trip.
	assert.InDelta(t, 1.5, r, 0.05)
	assert.InDelta(t, 0.8, g, 0.05)
	assert.InDelta(t, 0.2, b, 0.05)
}

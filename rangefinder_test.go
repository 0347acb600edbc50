package gainmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMinMaxWithoutOutliersRejectsEmpty(t *testing.T) {
	_, _, err := FindMinMaxWithoutOutliers(nil)
	assert.Error(t, err)
}

func TestFindMinMaxWithoutOutliersNarrowRangeUntouched(t *testing.T) {
	data := []float32{0, 0.005, 0.01, 0.015, 0.02}
	mn, mx, err := FindMinMaxWithoutOutliers(data)
	require.NoError(t, err)
	assert.Equal(t, float32(0), mn)
	assert.Equal(t, float32(0.02), mx)
}

func TestFindMinMaxWithoutOutliersStaysWithinRawRange(t *testing.T) {
	data := make([]float32, 0, 10000)
	for i := 0; i < 10000; i++ {
		data = append(data, float32(i)/10000.0)
	}
	mn, mx, err := FindMinMaxWithoutOutliers(data)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, mn, float32(0))
	assert.LessOrEqual(t, mx, float32(0.9999))
}

func TestFindMinMaxWithoutOutliersTrimsSparseTails(t *testing.T) {
	// A dense cluster in [0.4, 0.6] plus a handful of far outliers on each
	// side. The trimmed range should sit close to the dense cluster and
	// exclude the isolated extremes.
	data := make([]float32, 0, 10010)
	for i := 0; i < 10000; i++ {
		data = append(data, 0.4+0.2*float32(i)/10000.0)
	}
	for i := 0; i < 5; i++ {
		data = append(data, -100)
		data = append(data, 100)
	}
	mn, mx, err := FindMinMaxWithoutOutliers(data)
	require.NoError(t, err)
	assert.Greater(t, mn, float32(0))
	assert.Less(t, mx, float32(100))
}

func TestValueToBucketIdxClampsToRange(t *testing.T) {
	assert.Equal(t, 0, valueToBucketIdx(-5, 0, 10, 10))
	assert.Equal(t, 9, valueToBucketIdx(50, 0, 10, 10))
}

func TestBucketIdxToValueRoundTrip(t *testing.T) {
	v := bucketIdxToValue(5, 0, 10, 10)
	assert.InDelta(t, 5, v, 1e-6)
	assert.Equal(t, 5, valueToBucketIdx(v, 0, 10, 10))
}

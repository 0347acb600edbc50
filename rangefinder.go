package gainmap

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// FindMinMaxWithoutOutliers computes an approximate [min, max] over data,
// discarding up to maxOutliersRatio/2 of the samples on each tail via a
// histogram. The returned range always lies within the raw [min, max] and
// excludes only whole empty buckets, never cutting through a populated one.
func FindMinMaxWithoutOutliers(data []float32) (rangeMin, rangeMax float32, err error) {
	if len(data) == 0 {
		return 0, 0, errors.Wrap(ErrInvalidArgument, "no samples")
	}

	min, max := data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rangeMin, rangeMax = min, max

	n := len(data)
	maxOutliersOnEachSide := int(math32.Round(float32(n) * float32(maxOutliersRatio) / 2.0))
	if (max-min) <= rangeBucketSize*2 || maxOutliersOnEachSide == 0 {
		return rangeMin, rangeMax, nil
	}

	numBuckets := int(math32.Ceil((max - min) / rangeBucketSize))
	if numBuckets > maxHistogramBuckets {
		numBuckets = maxHistogramBuckets
	}
	histogram := make([]int, numBuckets)
	if histogram == nil {
		return 0, 0, errors.Wrap(ErrOutOfMemory, "histogram allocation failed")
	}
	for _, v := range data {
		histogram[valueToBucketIdx(v, min, max, numBuckets)]++
	}

	leftOutliers := 0
	for i := 0; i < numBuckets; i++ {
		leftOutliers += histogram[i]
		if leftOutliers > maxOutliersOnEachSide {
			break
		}
		if histogram[i] == 0 {
			// +1 to snap to the upper edge of the empty bucket.
			rangeMin = bucketIdxToValue(i+1, min, max, numBuckets)
		}
	}

	rightOutliers := 0
	for i := numBuckets - 1; i >= 0; i-- {
		rightOutliers += histogram[i]
		if rightOutliers > maxOutliersOnEachSide {
			break
		}
		if histogram[i] == 0 {
			rangeMax = bucketIdxToValue(i, min, max, numBuckets)
		}
	}

	return rangeMin, rangeMax, nil
}

// valueToBucketIdx returns the histogram bucket index for v given a
// histogram with numBuckets buckets uniformly spanning [bucketMin, bucketMax].
func valueToBucketIdx(v, bucketMin, bucketMax float32, numBuckets int) int {
	if v < bucketMin {
		v = bucketMin
	}
	if v > bucketMax {
		v = bucketMax
	}
	idx := int(math32.Round((v - bucketMin) / (bucketMax - bucketMin) * float32(numBuckets)))
	if idx > numBuckets-1 {
		idx = numBuckets - 1
	}
	return idx
}

// bucketIdxToValue returns the lower end of the value range belonging to
// histogram bucket idx.
func bucketIdxToValue(idx int, bucketMin, bucketMax float32, numBuckets int) float32 {
	return float32(idx)*(bucketMax-bucketMin)/float32(numBuckets) + bucketMin
}

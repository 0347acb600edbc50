package gainmap

// Numerical constants from the gain-map reconstruction/computation contract.
// Changing any of these is a behavioral change, not a refactor.
const (
	// sdrWhiteNits is the reference luminance used to convert extended-SDR
	// linear values (1.0 == SDR white) into physical nits for CLLI.
	sdrWhiteNits = 203.0

	// rangeBucketSize is the histogram bucket width used by
	// FindMinMaxWithoutOutliers. Empirical value.
	rangeBucketSize = 0.01
	// maxOutliersRatio bounds the fraction of samples that may be trimmed
	// from each tail.
	maxOutliersRatio = 0.001
	// maxHistogramBuckets caps the number of histogram buckets regardless
	// of how wide the observed range is.
	maxHistogramBuckets = 10000

	// offsetInflationCap bounds how far an offset may be inflated to keep
	// the converted side's offset-adjusted value (ratio numerator or
	// denominator) from going negative when primaries differ between base
	// and alternate. Empirical value: bounds partial-application artifacts.
	offsetInflationCap = 0.1

	// ratioEpsilon keeps log2(ratio) from reaching -Inf when the
	// numerator is zero or negative.
	ratioEpsilon = 1e-10
)

package gainmap

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// SignedFraction is a rational number with the sign carried in the
// numerator. A denominator of zero marks metadata as invalid; ToFloat
// returns 0 for it rather than panicking, matching the contract that
// to_float on a zero denominator yields 0.
type SignedFraction struct {
	N int32
	D uint32
}

// UnsignedFraction is a non-negative rational number.
type UnsignedFraction struct {
	N uint32
	D uint32
}

// ToFloat converts f to float32, returning 0 if the denominator is zero.
func (f SignedFraction) ToFloat() float32 {
	if f.D == 0 {
		return 0
	}
	return float32(f.N) / float32(f.D)
}

// ToFloat converts f to float32, returning 0 if the denominator is zero.
func (f UnsignedFraction) ToFloat() float32 {
	if f.D == 0 {
		return 0
	}
	return float32(f.N) / float32(f.D)
}

// Less reports whether f < other, comparing exact rationals via
// cross-multiplication with 64-bit intermediates to avoid floating-point
// rounding at the min/max boundary.
func (f SignedFraction) Less(other SignedFraction) bool {
	return int64(f.N)*int64(other.D) < int64(other.N)*int64(f.D)
}

// fractionMaxIterations bounds the continued-fraction search used by
// FloatToUnsignedFraction/FloatToSignedFraction.
const fractionMaxIterations = 39

// FloatToUnsignedFraction finds a numerator/denominator pair approximating
// v as closely as a uint32/uint32 fraction allows, using the same
// continued-fraction search as the ISO 21496-1 reference fraction encoder.
// v must be finite and non-negative.
func FloatToUnsignedFraction(v float64) (UnsignedFraction, error) {
	const maxNumerator = uint32(math.MaxUint32)
	n, d, ok := floatToFractionImpl(v, maxNumerator)
	if !ok {
		return UnsignedFraction{}, errors.Errorf("cannot represent %v as an unsigned fraction", v)
	}
	return UnsignedFraction{N: n, D: d}, nil
}

// FloatToSignedFraction finds a numerator/denominator pair approximating v,
// carrying the sign of v in the numerator. v must be finite.
func FloatToSignedFraction(v float64) (SignedFraction, error) {
	const maxNumerator = uint32(math.MaxInt32)
	n, d, ok := floatToFractionImpl(math.Abs(v), maxNumerator)
	if !ok {
		return SignedFraction{}, errors.Errorf("cannot represent %v as a signed fraction", v)
	}
	signed := int32(n)
	if v < 0 {
		signed = -signed
	}
	return SignedFraction{N: signed, D: d}, nil
}

// floatToFractionImpl is a continued-fraction search bounded by
// maxNumerator, ported from the ISO 21496-1 fraction encoder used to pack
// gain-map metadata into a fixed-width binary record.
func floatToFractionImpl(v float64, maxNumerator uint32) (uint32, uint32, bool) {
	if math32.IsNaN(float32(v)) || v < 0 || v > float64(maxNumerator) {
		return 0, 0, false
	}

	var maxD uint64
	if v <= 1 {
		maxD = uint64(math.MaxUint32)
	} else {
		maxD = uint64(math.Floor(float64(maxNumerator) / v))
	}

	den := uint32(1)
	prevD := uint32(0)
	currentV := v - math.Floor(v)

	for iter := 0; iter < fractionMaxIterations; iter++ {
		numeratorDouble := float64(den) * v
		if numeratorDouble > float64(maxNumerator) {
			return 0, 0, false
		}
		num := uint32(math.Round(numeratorDouble))
		if math.Abs(numeratorDouble-float64(num)) == 0.0 {
			return num, den, true
		}
		if currentV == 0 {
			return num, den, true
		}
		currentV = 1.0 / currentV
		newD := float64(prevD) + math.Floor(currentV)*float64(den)
		if newD > float64(maxD) {
			return num, den, true
		}
		prevD = den
		if newD > float64(math.MaxUint32) {
			return 0, 0, false
		}
		den = uint32(newD)
		currentV -= math.Floor(currentV)
	}
	return uint32(math.Round(float64(den) * v)), den, true
}

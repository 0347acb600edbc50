package gainmap

import "github.com/chewxy/math32"

// Weight maps a display HDR headroom to a signed blend weight in [-1, 1]
// for the given metadata. The weight is the clamped fraction of the way
// hdrHeadroom sits between the base and alternate headrooms, negated when
// the alternate headroom is the smaller of the two. If the base and
// alternate headrooms are equal, the gain map is not defined for any ratio
// and Weight returns 0.
func Weight(hdrHeadroom float32, m *GainMapMetadata) float32 {
	base := m.BaseHdrHeadroom.ToFloat()
	alt := m.AlternateHdrHeadroom.ToFloat()
	if base == alt {
		return 0
	}
	w := math32.Min(math32.Max((hdrHeadroom-base)/(alt-base), 0), 1)
	if alt < base {
		return -w
	}
	return w
}

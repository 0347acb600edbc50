package gainmap

import (
	"bytes"

	"github.com/pkg/errors"
)

// GainMapMetadata is the per-channel fraction-based metadata record that
// drives both the Apply and Compute Engines. Fields mirror avifGainMap's
// metadata members in original_source/src/gainmap.c.
type GainMapMetadata struct {
	GainMapMin   [3]SignedFraction
	GainMapMax   [3]SignedFraction
	GainMapGamma [3]UnsignedFraction
	BaseOffset   [3]SignedFraction
	AltOffset    [3]SignedFraction

	BaseHdrHeadroom      UnsignedFraction
	AlternateHdrHeadroom UnsignedFraction
	UseBaseColorSpace    bool

	// Alternate-rendition descriptors, carried but not interpreted by the
	// core except where noted.
	AltColorPrimaries          ColorPrimaries
	AltTransferCharacteristics TransferCharacteristic
	AltMatrixCoefficients      MatrixCoefficients
	AltYUVRange                YUVRange
	AltDepth                   int
	AltPlaneCount              int
	AltCLLI                    CLLI
	AltICC                     []byte
}

// EncodingDefaults returns metadata with the baseline values an encoder
// seeds before running the Compute Engine: gainMapMin/Max = 1/1, offsets =
// 1/64, gamma = 1/1, baseHdrHeadroom = 0/1, alternateHdrHeadroom = 1/1,
// useBaseColorSpace = true.
func EncodingDefaults() *GainMapMetadata {
	m := &GainMapMetadata{UseBaseColorSpace: true}
	for c := 0; c < 3; c++ {
		m.GainMapMin[c] = SignedFraction{N: 1, D: 1}
		m.GainMapMax[c] = SignedFraction{N: 1, D: 1}
		m.BaseOffset[c] = SignedFraction{N: 1, D: 64}
		m.AltOffset[c] = SignedFraction{N: 1, D: 64}
		m.GainMapGamma[c] = UnsignedFraction{N: 1, D: 1}
	}
	m.BaseHdrHeadroom = UnsignedFraction{N: 0, D: 1}
	m.AlternateHdrHeadroom = UnsignedFraction{N: 1, D: 1}
	return m
}

// ValidateMetadata enforces the structural invariants required for the
// Apply and Compute Engines to run: no denominator is zero, no gamma
// numerator is zero, and max >= min per channel (compared as exact
// rationals). It is pure and side-effect free.
func ValidateMetadata(m *GainMapMetadata) error {
	if m == nil {
		return errors.Wrap(ErrInvalidArgument, "gain map metadata is nil")
	}
	for c := 0; c < 3; c++ {
		if m.GainMapMin[c].D == 0 || m.GainMapMax[c].D == 0 || m.GainMapGamma[c].D == 0 ||
			m.BaseOffset[c].D == 0 || m.AltOffset[c].D == 0 {
			return errors.Wrapf(ErrInvalidArgument, "channel %d: denominator is zero in gain map metadata", c)
		}
		if m.GainMapMax[c].Less(m.GainMapMin[c]) {
			return errors.Wrapf(ErrInvalidArgument, "channel %d: gain map max is less than gain map min", c)
		}
		if m.GainMapGamma[c].N == 0 {
			return errors.Wrapf(ErrInvalidArgument, "channel %d: gain map gamma numerator is zero", c)
		}
	}
	if m.BaseHdrHeadroom.D == 0 || m.AlternateHdrHeadroom.D == 0 {
		return errors.Wrap(ErrInvalidArgument, "headroom denominator is zero in gain map metadata")
	}
	return nil
}

// SameGainMapMetadata compares the math-affecting fields of a and b for
// byte equality: both headrooms and, per channel, min/max/gamma and the two
// offsets, all as raw (n, d) pairs. It is reflexive and symmetric.
func SameGainMapMetadata(a, b *GainMapMetadata) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.BaseHdrHeadroom != b.BaseHdrHeadroom || a.AlternateHdrHeadroom != b.AlternateHdrHeadroom {
		return false
	}
	for c := 0; c < 3; c++ {
		if a.GainMapMin[c] != b.GainMapMin[c] ||
			a.GainMapMax[c] != b.GainMapMax[c] ||
			a.GainMapGamma[c] != b.GainMapGamma[c] ||
			a.BaseOffset[c] != b.BaseOffset[c] ||
			a.AltOffset[c] != b.AltOffset[c] {
			return false
		}
	}
	return true
}

// SameGainMapAltMetadata compares the alternate-rendition descriptors: ICC
// bytes, primaries/transfer/matrix, YUV range, depth, plane count, and CLLI.
func SameGainMapAltMetadata(a, b *GainMapMetadata) bool {
	if a == nil || b == nil {
		return a == b
	}
	return bytes.Equal(a.AltICC, b.AltICC) &&
		a.AltColorPrimaries == b.AltColorPrimaries &&
		a.AltTransferCharacteristics == b.AltTransferCharacteristics &&
		a.AltMatrixCoefficients == b.AltMatrixCoefficients &&
		a.AltYUVRange == b.AltYUVRange &&
		a.AltDepth == b.AltDepth &&
		a.AltPlaneCount == b.AltPlaneCount &&
		a.AltCLLI == b.AltCLLI
}

// allChannelsIdentical reports whether the per-channel fields are equal
// across all three channels, the condition under which a single-channel
// (luma-only) gain map can share one set of metadata values across slots
// 0, 1 and 2.
func allChannelsIdentical(m *GainMapMetadata) bool {
	for c := 1; c < 3; c++ {
		if m.GainMapMin[c] != m.GainMapMin[0] ||
			m.GainMapMax[c] != m.GainMapMax[0] ||
			m.GainMapGamma[c] != m.GainMapGamma[0] ||
			m.BaseOffset[c] != m.BaseOffset[0] ||
			m.AltOffset[c] != m.AltOffset[0] {
			return false
		}
	}
	return true
}

// replicateChannelZero copies channel 0's per-channel fields into slots 1
// and 2, used by the Compute Engine when the gain map is single-channel.
func replicateChannelZero(m *GainMapMetadata) {
	for c := 1; c < 3; c++ {
		m.GainMapMin[c] = m.GainMapMin[0]
		m.GainMapMax[c] = m.GainMapMax[0]
		m.GainMapGamma[c] = m.GainMapGamma[0]
		m.BaseOffset[c] = m.BaseOffset[0]
		m.AltOffset[c] = m.AltOffset[0]
	}
}

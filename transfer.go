package gainmap

import (
	"github.com/chewxy/math32"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// transferFunc pairs toLinear and toGamma, which convert a single
// gamma-encoded sample in [0, 1] to/from scene- or display-linear light for
// a given transfer characteristic.
type transferFunc struct {
	toLinear func(float32) float32
	toGamma  func(float32) float32
}

// srgbToLinear/linearToSRGB delegate to go-colorful's companding functions,
// which implement the same piecewise sRGB curve used throughout the
// reference pipeline, rather than hand-rolling it again.
func srgbToLinear(v float32) float32 {
	_, g, _ := (colorful.Color{R: float64(v), G: float64(v), B: float64(v)}).LinearRgb()
	return float32(g)
}

func linearToSRGB(v float32) float32 {
	c := colorful.LinearRgb(float64(v), float64(v), float64(v))
	return float32(c.G)
}

// pqToLinear and linearToPQ implement SMPTE ST 2084 (PQ), normalized so
// that 1.0 linear corresponds to the curve's 10000-nit reference peak. No
// library in the available dependency set implements the PQ or HLG
// transfer curves, so these are hand-rolled against the published formulas.
func pqToLinear(v float32) float32 {
	const (
		m1 = 2610.0 / 16384.0
		m2 = 2523.0 / 4096.0 * 128.0
		c1 = 3424.0 / 4096.0
		c2 = 2413.0 / 4096.0 * 32.0
		c3 = 2392.0 / 4096.0 * 32.0
	)
	if v <= 0 {
		return 0
	}
	vp := math32.Pow(v, 1.0/m2)
	num := math32.Max(vp-c1, 0)
	den := c2 - c3*vp
	if den <= 0 {
		return 0
	}
	return math32.Pow(num/den, 1.0/m1)
}

func linearToPQ(v float32) float32 {
	const (
		m1 = 2610.0 / 16384.0
		m2 = 2523.0 / 4096.0 * 128.0
		c1 = 3424.0 / 4096.0
		c2 = 2413.0 / 4096.0 * 32.0
		c3 = 2392.0 / 4096.0 * 32.0
	)
	if v <= 0 {
		return 0
	}
	vp := math32.Pow(v, m1)
	num := c1 + c2*vp
	den := 1 + c3*vp
	return math32.Pow(num/den, m2)
}

// hlgToLinear and linearToHLG implement the ARIB STD-B67 (HLG) OETF/inverse
// OETF, scene-referred (not including the HLG OOTF, which this package
// leaves to the caller since it depends on display peak luminance).
func hlgToLinear(v float32) float32 {
	const a, b, c = 0.17883277, 0.28466892, 0.55991073
	if v <= 0.5 {
		return (v * v) / 3.0
	}
	return (math32.Exp((v-c)/a) + b) / 12.0
}

func linearToHLG(v float32) float32 {
	const a, b, c = 0.17883277, 0.28466892, 0.55991073
	if v <= 1.0/12.0 {
		return math32.Sqrt(3.0 * v)
	}
	return a*math32.Log(12.0*v-b) + c
}

var transferFuncs = map[TransferCharacteristic]transferFunc{
	TransferSRGB:   {toLinear: srgbToLinear, toGamma: linearToSRGB},
	TransferLinear: {toLinear: func(v float32) float32 { return v }, toGamma: func(v float32) float32 { return v }},
	TransferPQ:     {toLinear: pqToLinear, toGamma: linearToPQ},
	TransferHLG:    {toLinear: hlgToLinear, toGamma: linearToHLG},
}

// GammaToLinear converts a gamma-encoded sample to linear light under the
// given transfer characteristic. TransferUnspecified is treated as sRGB.
func GammaToLinear(v float32, t TransferCharacteristic) (float32, error) {
	if t == TransferUnspecified {
		t = TransferSRGB
	}
	fn, ok := transferFuncs[t]
	if !ok {
		return 0, errors.Wrapf(ErrNotImplemented, "transfer characteristic %d", t)
	}
	return fn.toLinear(v), nil
}

// LinearToGamma converts a linear-light sample to gamma encoding under the
// given transfer characteristic.
func LinearToGamma(v float32, t TransferCharacteristic) (float32, error) {
	if t == TransferUnspecified {
		t = TransferSRGB
	}
	fn, ok := transferFuncs[t]
	if !ok {
		return 0, errors.Wrapf(ErrNotImplemented, "transfer characteristic %d", t)
	}
	return fn.toGamma(v), nil
}

package gainmap

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/pkg/errors"
)

// primariesChromaticity holds the CIE xy chromaticity coordinates of the
// red, green, blue primaries and the white point for a color primaries tag.
type primariesChromaticity struct {
	rx, ry float64
	gx, gy float64
	bx, by float64
	wx, wy float64
}

var primariesTable = map[ColorPrimaries]primariesChromaticity{
	PrimariesBT709:     {0.640, 0.330, 0.300, 0.600, 0.150, 0.060, 0.3127, 0.3290},
	PrimariesDisplayP3: {0.680, 0.320, 0.265, 0.690, 0.150, 0.060, 0.3127, 0.3290},
	PrimariesBT2020:    {0.708, 0.292, 0.170, 0.797, 0.131, 0.046, 0.3127, 0.3290},
	PrimariesAdobeRGB:  {0.640, 0.330, 0.210, 0.710, 0.150, 0.060, 0.3127, 0.3290},
}

// rgbToXYZMatrix builds the linear-RGB -> XYZ matrix for a primaries set
// from its chromaticity coordinates, following the standard construction
// used by color management libraries: derive XYZ for each primary from its
// xy coordinates, scale by luminance coefficients solved from the white
// point.
func rgbToXYZMatrix(p primariesChromaticity) *mat.Dense {
	xyzFromXY := func(x, y float64) (float64, float64, float64) {
		return x / y, 1.0, (1 - x - y) / y
	}
	rX, rY, rZ := xyzFromXY(p.rx, p.ry)
	gX, gY, gZ := xyzFromXY(p.gx, p.gy)
	bX, bY, bZ := xyzFromXY(p.bx, p.by)
	wX, wY, wZ := xyzFromXY(p.wx, p.wy)

	primaryMatrix := mat.NewDense(3, 3, []float64{
		rX, gX, bX,
		rY, gY, bY,
		rZ, gZ, bZ,
	})
	var inv mat.Dense
	if err := inv.Inverse(primaryMatrix); err != nil {
		return primaryMatrix
	}
	white := mat.NewVecDense(3, []float64{wX, wY, wZ})
	var scale mat.VecDense
	scale.MulVec(&inv, white)

	out := mat.NewDense(3, 3, nil)
	out.Scale(1, primaryMatrix)
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			out.Set(row, col, primaryMatrix.At(row, col)*scale.AtVec(col))
		}
	}
	return out
}

var (
	rgbToXYZCacheMu sync.RWMutex
	rgbToXYZCache   = map[ColorPrimaries]*mat.Dense{}
)

func colorPrimariesRGBToXYZ(p ColorPrimaries) (*mat.Dense, error) {
	rgbToXYZCacheMu.RLock()
	m, ok := rgbToXYZCache[p]
	rgbToXYZCacheMu.RUnlock()
	if ok {
		return m, nil
	}
	chroma, ok := primariesTable[p]
	if !ok {
		return nil, errors.Wrapf(ErrNotImplemented, "color primaries %d have no known chromaticity", p)
	}
	m = rgbToXYZMatrix(chroma)
	rgbToXYZCacheMu.Lock()
	rgbToXYZCache[p] = m
	rgbToXYZCacheMu.Unlock()
	return m, nil
}

// colorPrimariesComputeRGBToRGBMatrix returns the linear-light 3x3 matrix
// converting RGB in the from primaries to RGB in the to primaries.
func colorPrimariesComputeRGBToRGBMatrix(from, to ColorPrimaries) (*mat.Dense, error) {
	if from == to {
		identity := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
		return identity, nil
	}
	fromToXYZ, err := colorPrimariesRGBToXYZ(from)
	if err != nil {
		return nil, err
	}
	toToXYZ, err := colorPrimariesRGBToXYZ(to)
	if err != nil {
		return nil, err
	}
	var toFromXYZ mat.Dense
	if err := toFromXYZ.Inverse(toToXYZ); err != nil {
		return nil, errors.Wrap(ErrNotImplemented, "target primaries matrix is not invertible")
	}
	var result mat.Dense
	result.Mul(&toFromXYZ, fromToXYZ)
	return &result, nil
}

// linearRGBConvertColorSpace applies coeffs (a row-major 3x3 matrix) to the
// linear RGB triplet v.
func linearRGBConvertColorSpace(v vec3, coeffs *mat.Dense) vec3 {
	return vec3{
		R: float32(coeffs.At(0, 0))*v.R + float32(coeffs.At(0, 1))*v.G + float32(coeffs.At(0, 2))*v.B,
		G: float32(coeffs.At(1, 0))*v.R + float32(coeffs.At(1, 1))*v.G + float32(coeffs.At(1, 2))*v.B,
		B: float32(coeffs.At(2, 0))*v.R + float32(coeffs.At(2, 1))*v.G + float32(coeffs.At(2, 2))*v.B,
	}
}

// ChooseColorSpaceForGainMapMath picks which of base or alt primaries gain
// map math should be carried out in. When both sides differ, it converts
// pure red, green and blue of each side into the other side's primaries
// and keeps the primaries whose incoming conversion produces the least
// negative excursion — the larger of the two color spaces, approximately.
func ChooseColorSpaceForGainMapMath(basePrimaries, altPrimaries ColorPrimaries) (ColorPrimaries, error) {
	if basePrimaries == altPrimaries {
		return basePrimaries, nil
	}
	baseToAlt, err := colorPrimariesComputeRGBToRGBMatrix(basePrimaries, altPrimaries)
	if err != nil {
		return PrimariesUnspecified, err
	}
	altToBase, err := colorPrimariesComputeRGBToRGBMatrix(altPrimaries, basePrimaries)
	if err != nil {
		return PrimariesUnspecified, err
	}

	var baseMin, altMin float32
	for c := 0; c < 3; c++ {
		pure := vec3{}
		switch c {
		case 0:
			pure.R = 1
		case 1:
			pure.G = 1
		case 2:
			pure.B = 1
		}
		converted := linearRGBConvertColorSpace(pure, altToBase)
		baseMin = min3(baseMin, converted.R, converted.G, converted.B)

		converted = linearRGBConvertColorSpace(pure, baseToAlt)
		altMin = min3(altMin, converted.R, converted.G, converted.B)
	}
	if altMin <= baseMin {
		return basePrimaries, nil
	}
	return altPrimaries, nil
}

func min3(acc, a, b, c float32) float32 {
	if a < acc {
		acc = a
	}
	if b < acc {
		acc = b
	}
	if c < acc {
		acc = c
	}
	return acc
}

// colorPrimariesComputeYCoeffs returns the luma coefficients (Y row of the
// RGB->XYZ matrix, renormalized to sum to 1) for a primaries set, used by
// the Compute Engine's single-channel luminance-ratio math.
func colorPrimariesComputeYCoeffs(p ColorPrimaries) ([3]float32, error) {
	toXYZ, err := colorPrimariesRGBToXYZ(p)
	if err != nil {
		return [3]float32{}, err
	}
	yr, yg, yb := toXYZ.At(1, 0), toXYZ.At(1, 1), toXYZ.At(1, 2)
	sum := yr + yg + yb
	if sum == 0 {
		return [3]float32{}, errors.Wrap(ErrNotImplemented, "degenerate luma coefficients")
	}
	return [3]float32{float32(yr / sum), float32(yg / sum), float32(yb / sum)}, nil
}

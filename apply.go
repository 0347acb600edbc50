package gainmap

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ApplyOptions carries the Apply Engine's per-call parameters beyond the
// required base image, gain map and target headroom.
type ApplyOptions struct {
	OutputColorPrimaries          ColorPrimaries
	OutputTransferCharacteristics TransferCharacteristic
	Rescaler                      Rescaler
	Diagnostics                   *Diagnostics
}

// ApplyRGB reconstructs a display-ready image from a base image and gain
// map at the requested HDR headroom, returning the result plus its content
// light level. hdrHeadroom must be >= 0.
//
// When the gain map's weight for hdrHeadroom is zero and the requested
// output format matches the base image exactly, ApplyRGB takes a fast path
// that skips the per-pixel gain computation entirely.
func ApplyRGB(base *RGBImage, baseColorPrimaries ColorPrimaries, baseTransfer TransferCharacteristic,
	gainMapImage *RGBImage, metadata *GainMapMetadata, hdrHeadroom float32, opts *ApplyOptions) (*RGBImage, CLLI, error) {

	if opts == nil {
		opts = &ApplyOptions{}
	}
	opts.Diagnostics.Clear()

	if hdrHeadroom < 0 {
		opts.Diagnostics.Printf("hdrHeadroom should be >= 0, got %f", hdrHeadroom)
		return nil, CLLI{}, errors.Wrap(ErrInvalidArgument, "negative hdrHeadroom")
	}
	if base == nil || gainMapImage == nil || metadata == nil {
		return nil, CLLI{}, errors.Wrap(ErrInvalidArgument, "nil input image or metadata")
	}
	if err := ValidateMetadata(metadata); err != nil {
		opts.Diagnostics.Printf("%s", err)
		return nil, CLLI{}, err
	}

	outputPrimaries := opts.OutputColorPrimaries
	if outputPrimaries == PrimariesUnspecified {
		outputPrimaries = baseColorPrimaries
	}
	outputTransfer := opts.OutputTransferCharacteristics
	if outputTransfer == TransferUnspecified {
		outputTransfer = baseTransfer
	}

	gainMapMathPrimaries := baseColorPrimaries
	if !metadata.UseBaseColorSpace && metadata.AltColorPrimaries != PrimariesUnspecified {
		gainMapMathPrimaries = metadata.AltColorPrimaries
	}
	needsInputConversion := baseColorPrimaries != gainMapMathPrimaries
	needsOutputConversion := gainMapMathPrimaries != outputPrimaries

	weight := Weight(hdrHeadroom, metadata)

	out := NewRGBImage(base.Width, base.Height, base.Format)
	out.Depth = base.Depth

	// Fast path: nothing to tone map and the output layout already matches
	// the base image, so a straight copy reproduces the reference result.
	if weight == 0 && outputTransfer == baseTransfer && outputPrimaries == baseColorPrimaries && base.SameLayout(out) {
		copy(out.Pix, base.Pix)
		return out, CLLI{}, nil
	}

	if gainMapImage.Width != base.Width || gainMapImage.Height != base.Height {
		rescaler := opts.Rescaler
		if rescaler == nil {
			rescaler = NFNTRescaler{}
		}
		rescaled, err := rescaler.Rescale(gainMapImage, base.Width, base.Height)
		if err != nil {
			opts.Diagnostics.Printf("failed to rescale gain map: %s", err)
			return nil, CLLI{}, err
		}
		gainMapImage = rescaled
	}

	// Weight-zero path with differing output format: still need to run the
	// primaries/transfer conversion on every pixel, but no gain is applied.
	if weight == 0 {
		var conv *mat.Dense
		primariesDiffer := baseColorPrimaries != outputPrimaries
		if primariesDiffer {
			m, err := colorPrimariesComputeRGBToRGBMatrix(baseColorPrimaries, outputPrimaries)
			if err != nil {
				opts.Diagnostics.Printf("%s", err)
				return nil, CLLI{}, err
			}
			conv = m
		}
		for y := 0; y < base.Height; y++ {
			for x := 0; x < base.Width; x++ {
				r, g, b, a := base.RGBAAt(x, y)
				if outputTransfer != baseTransfer || primariesDiffer {
					lv, err := gammaTripleToLinear(vec3{r, g, b}, baseTransfer)
					if err != nil {
						return nil, CLLI{}, err
					}
					if conv != nil {
						lv = linearRGBConvertColorSpace(lv, conv)
					}
					gv, err := linearTripleToGamma(lv, outputTransfer)
					if err != nil {
						return nil, CLLI{}, err
					}
					r, g, b = clampOutputSample(gv.R, outputTransfer), clampOutputSample(gv.G, outputTransfer), clampOutputSample(gv.B, outputTransfer)
				}
				out.SetRGBAAt(x, y, r, g, b, a)
			}
		}
		return out, CLLI{}, nil
	}

	var inputConv, outputConv *mat.Dense
	if needsInputConversion {
		m, err := colorPrimariesComputeRGBToRGBMatrix(baseColorPrimaries, gainMapMathPrimaries)
		if err != nil {
			opts.Diagnostics.Printf("%s", err)
			return nil, CLLI{}, err
		}
		inputConv = m
	}
	if needsOutputConversion {
		m, err := colorPrimariesComputeRGBToRGBMatrix(gainMapMathPrimaries, outputPrimaries)
		if err != nil {
			opts.Diagnostics.Printf("%s", err)
			return nil, CLLI{}, err
		}
		outputConv = m
	}

	var gammaInv, gainMapMin, gainMapMax, baseOffset, altOffset [3]float32
	for c := 0; c < 3; c++ {
		gammaInv[c] = 1.0 / metadata.GainMapGamma[c].ToFloat()
		gainMapMin[c] = metadata.GainMapMin[c].ToFloat()
		gainMapMax[c] = metadata.GainMapMax[c].ToFloat()
		baseOffset[c] = metadata.BaseOffset[c].ToFloat()
		altOffset[c] = metadata.AltOffset[c].ToFloat()
	}

	var rgbMaxLinear, rgbSumLinear float32
	for y := 0; y < base.Height; y++ {
		for x := 0; x < base.Width; x++ {
			r, g, b, a := base.RGBAAt(x, y)
			baseLinear, err := gammaTripleToLinear(vec3{r, g, b}, baseTransfer)
			if err != nil {
				return nil, CLLI{}, err
			}
			if inputConv != nil {
				baseLinear = linearRGBConvertColorSpace(baseLinear, inputConv)
			}

			gr, gg, gb, _ := gainMapImage.RGBAAt(x, y)
			gainValues := [3]float32{gr, gg, gb}
			baseComponents := [3]float32{baseLinear.R, baseLinear.G, baseLinear.B}

			var toneMapped [3]float32
			pixelMax := float32(0)
			for c := 0; c < 3; c++ {
				gainLog2 := lerp(gainMapMin[c], gainMapMax[c], math32.Pow(gainValues[c], gammaInv[c]))
				tm := (baseComponents[c] + baseOffset[c]) * math32.Exp2(gainLog2*weight) - altOffset[c]
				if tm > rgbMaxLinear {
					rgbMaxLinear = tm
				}
				if tm > pixelMax {
					pixelMax = tm
				}
				toneMapped[c] = tm
			}
			rgbSumLinear += pixelMax

			outLinear := vec3{toneMapped[0], toneMapped[1], toneMapped[2]}
			if outputConv != nil {
				outLinear = linearRGBConvertColorSpace(outLinear, outputConv)
			}
			outGamma, err := linearTripleToGamma(outLinear, outputTransfer)
			if err != nil {
				return nil, CLLI{}, err
			}
			out.SetRGBAAt(x, y,
				clampOutputSample(outGamma.R, outputTransfer),
				clampOutputSample(outGamma.G, outputTransfer),
				clampOutputSample(outGamma.B, outputTransfer), a)
		}
	}

	npixels := float32(base.Width * base.Height)
	clli := CLLI{
		MaxCLL:  clampUint16(math32.Round(rgbMaxLinear * sdrWhiteNits)),
		MaxPALL: clampUint16(math32.Round((rgbSumLinear / npixels) * sdrWhiteNits)),
	}
	return out, clli, nil
}

// ApplyImage is ApplyRGB for a YUV-encoded base image and gain map, using
// conv to decode both to RGB first and to encode the tone-mapped result
// back to YUV on the way out.
func ApplyImage(baseYUV interface{}, baseMatrix MatrixCoefficients, baseRange YUVRange,
	baseColorPrimaries ColorPrimaries, baseTransfer TransferCharacteristic,
	gainMapYUV interface{}, gainMapMatrix MatrixCoefficients, gainMapRange YUVRange,
	metadata *GainMapMetadata, hdrHeadroom float32, conv YUVConverter, opts *ApplyOptions) (interface{}, CLLI, error) {

	if conv == nil {
		conv = StdlibYUVConverter{}
	}
	base, err := conv.ToRGB(baseYUV, baseMatrix, baseRange)
	if err != nil {
		return nil, CLLI{}, errors.Wrap(err, "decoding base image to RGB")
	}
	gainMapImage, err := conv.ToRGB(gainMapYUV, gainMapMatrix, gainMapRange)
	if err != nil {
		return nil, CLLI{}, errors.Wrap(err, "decoding gain map to RGB")
	}
	tonedMapped, clli, err := ApplyRGB(base, baseColorPrimaries, baseTransfer, gainMapImage, metadata, hdrHeadroom, opts)
	if err != nil {
		return nil, CLLI{}, err
	}
	// The output inherits the base image's matrix/range; callers that need
	// a different target matrix re-encode the returned RGBImage through
	// their own YUVConverter.
	outYUV, err := conv.FromRGB(tonedMapped, baseMatrix, baseRange)
	if err != nil {
		return nil, CLLI{}, errors.Wrap(err, "encoding tone-mapped image to YUV")
	}
	return outYUV, clli, nil
}

func lerp(a, b, w float32) float32 {
	return (1-w)*a + w*b
}

// clampOutputSample clamps a gamma-encoded output sample to its valid
// range: always at least 0, and at most 1 only for sRGB, whose 0-1 gamma
// curve is the full representable range. Linear, PQ and HLG samples above
// 1.0 are legitimate extended-range/HDR values and are left alone so a
// reconstruction above SDR white isn't silently clipped back down to it.
func clampOutputSample(v float32, t TransferCharacteristic) float32 {
	if v < 0 {
		return 0
	}
	if t == TransferSRGB && v > 1 {
		return 1
	}
	return v
}

func clampUint16(v float32) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

func gammaTripleToLinear(v vec3, t TransferCharacteristic) (vec3, error) {
	r, err := GammaToLinear(v.R, t)
	if err != nil {
		return vec3{}, err
	}
	g, err := GammaToLinear(v.G, t)
	if err != nil {
		return vec3{}, err
	}
	b, err := GammaToLinear(v.B, t)
	if err != nil {
		return vec3{}, err
	}
	return vec3{r, g, b}, nil
}

func linearTripleToGamma(v vec3, t TransferCharacteristic) (vec3, error) {
	r, err := LinearToGamma(v.R, t)
	if err != nil {
		return vec3{}, err
	}
	g, err := LinearToGamma(v.G, t)
	if err != nil {
		return vec3{}, err
	}
	b, err := LinearToGamma(v.B, t)
	if err != nil {
		return vec3{}, err
	}
	return vec3{r, g, b}, nil
}

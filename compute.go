package gainmap

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ComputeRGB synthesizes a gain map and its metadata from a base and
// alternate rendition of the same scene. The returned gain map image is
// encoded with EncodingDefaults() headroom/offset/gamma seeds overwritten
// by the computed values, scaled so every channel lies in [0, 1].
func ComputeRGB(base *RGBImage, baseColorPrimaries ColorPrimaries, baseTransfer TransferCharacteristic,
	alt *RGBImage, altColorPrimaries ColorPrimaries, altTransfer TransferCharacteristic, opts *ComputeOptions) (*RGBImage, *GainMapMetadata, error) {

	if opts == nil {
		opts = &ComputeOptions{}
	}
	opts.Diagnostics.Clear()

	if base == nil || alt == nil {
		return nil, nil, errors.Wrap(ErrInvalidArgument, "nil input image")
	}
	if base.Width != alt.Width || base.Height != alt.Height {
		opts.Diagnostics.Printf("image dimensions don't match, got %dx%d and %dx%d", base.Width, base.Height, alt.Width, alt.Height)
		return nil, nil, errors.Wrap(ErrInvalidArgument, "dimension mismatch")
	}

	gainMapMathPrimaries, err := ChooseColorSpaceForGainMapMath(baseColorPrimaries, altColorPrimaries)
	if err != nil {
		opts.Diagnostics.Printf("%s", err)
		return nil, nil, err
	}
	metadata := EncodingDefaults()
	metadata.UseBaseColorSpace = gainMapMathPrimaries == baseColorPrimaries

	width, height := base.Width, base.Height
	colorSpacesDiffer := baseColorPrimaries != altColorPrimaries
	singleChannel := opts.SingleChannel
	numGainMapChannels := 3
	if singleChannel {
		numGainMapChannels = 1
	}

	var yCoeffs [3]float32
	if singleChannel {
		yCoeffs, err = colorPrimariesComputeYCoeffs(gainMapMathPrimaries)
		if err != nil {
			opts.Diagnostics.Printf("%s", err)
			return nil, nil, err
		}
	}

	var baseOffset, altOffset [3]float32
	for c := 0; c < 3; c++ {
		baseOffset[c] = metadata.BaseOffset[c].ToFloat()
		altOffset[c] = metadata.AltOffset[c].ToFloat()
	}

	// When primaries differ, inflate whichever side's offset is needed to
	// keep the converted channel non-negative, capped at offsetInflationCap.
	var rgbConv *gainMapConversion
	if colorSpacesDiffer {
		rgbConv, err = newGainMapConversion(metadata.UseBaseColorSpace, altColorPrimaries, baseColorPrimaries)
		if err != nil {
			opts.Diagnostics.Printf("%s", err)
			return nil, nil, err
		}

		var channelMin [3]float32
		src := alt
		srcTransfer := altTransfer
		if !metadata.UseBaseColorSpace {
			src = base
			srcTransfer = baseTransfer
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := src.RGBAAt(x, y)
				lv, err := gammaTripleToLinear(vec3{r, g, b}, srcTransfer)
				if err != nil {
					return nil, nil, err
				}
				lv = rgbConv.apply(lv)
				channelMin[0] = math32.Min(channelMin[0], lv.R)
				channelMin[1] = math32.Min(channelMin[1], lv.G)
				channelMin[2] = math32.Min(channelMin[2], lv.B)
			}
		}
		for c := 0; c < 3; c++ {
			if channelMin[c] < -ratioEpsilon {
				if metadata.UseBaseColorSpace {
					altOffset[c] = math32.Min(altOffset[c]-channelMin[c], offsetInflationCap)
				} else {
					baseOffset[c] = math32.Min(baseOffset[c]-channelMin[c], offsetInflationCap)
				}
			}
		}
	}

	gainMapF := make([][]float32, numGainMapChannels)
	for c := range gainMapF {
		gainMapF[c] = make([]float32, width*height)
	}

	baseMax, altMax := float32(1), float32(1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			br, bg, bb, _ := base.RGBAAt(x, y)
			baseRGBA, err := gammaTripleToLinear(vec3{br, bg, bb}, baseTransfer)
			if err != nil {
				return nil, nil, err
			}
			ar, ag, ab, _ := alt.RGBAAt(x, y)
			altRGBA, err := gammaTripleToLinear(vec3{ar, ag, ab}, altTransfer)
			if err != nil {
				return nil, nil, err
			}
			if colorSpacesDiffer {
				if metadata.UseBaseColorSpace {
					altRGBA = rgbConv.apply(altRGBA)
				} else {
					baseRGBA = rgbConv.apply(baseRGBA)
				}
			}

			baseC := [3]float32{baseRGBA.R, baseRGBA.G, baseRGBA.B}
			altC := [3]float32{altRGBA.R, altRGBA.G, altRGBA.B}
			for c := 0; c < numGainMapChannels; c++ {
				baseV, altV := baseC[c], altC[c]
				if singleChannel {
					baseV = yCoeffs[0]*baseC[0] + yCoeffs[1]*baseC[1] + yCoeffs[2]*baseC[2]
					altV = yCoeffs[0]*altC[0] + yCoeffs[1]*altC[1] + yCoeffs[2]*altC[2]
				}
				if baseV > baseMax {
					baseMax = baseV
				}
				if altV > altMax {
					altMax = altV
				}
				ratio := (altV + altOffset[c]) / (baseV + baseOffset[c])
				gainMapF[c][y*width+x] = math32.Log2(math32.Max(ratio, ratioEpsilon))
			}
		}
	}

	baseHeadroom, alternateHeadroom := opts.resolveHeadrooms()
	if baseHeadroom < 0 || alternateHeadroom < 0 {
		opts.Diagnostics.Printf("base/alternate HDR headroom not set: pass ComputeOptions.BaseHdrHeadroom/" +
			"AlternateHdrHeadroom or call SetManualBaseHdrHeadroom/SetManualAlternateHdrHeadroom")
		return nil, nil, errors.Wrap(ErrInvalidArgument, "base or alternate HDR headroom is not set")
	}
	baseHR, err := FloatToUnsignedFraction(baseHeadroom)
	if err != nil {
		return nil, nil, errors.Wrap(ErrInvalidArgument, err.Error())
	}
	altHR, err := FloatToUnsignedFraction(alternateHeadroom)
	if err != nil {
		return nil, nil, errors.Wrap(ErrInvalidArgument, err.Error())
	}
	metadata.BaseHdrHeadroom = baseHR
	metadata.AlternateHdrHeadroom = altHR

	if alternateHeadroom < baseHeadroom {
		for c := 0; c < numGainMapChannels; c++ {
			for i := range gainMapF[c] {
				gainMapF[c][i] *= -1
			}
		}
	}

	var gainMapMinLog2, gainMapMaxLog2 [3]float32
	for c := 0; c < numGainMapChannels; c++ {
		mn, mx, err := FindMinMaxWithoutOutliers(gainMapF[c])
		if err != nil {
			return nil, nil, err
		}
		gainMapMinLog2[c], gainMapMaxLog2[c] = mn, mx
	}
	if singleChannel {
		gainMapMinLog2[1], gainMapMinLog2[2] = gainMapMinLog2[0], gainMapMinLog2[0]
		gainMapMaxLog2[1], gainMapMaxLog2[2] = gainMapMaxLog2[0], gainMapMaxLog2[0]
	}

	for c := 0; c < 3; c++ {
		if metadata.GainMapMin[c], err = FloatToSignedFraction(float64(gainMapMinLog2[c])); err != nil {
			return nil, nil, err
		}
		if metadata.GainMapMax[c], err = FloatToSignedFraction(float64(gainMapMaxLog2[c])); err != nil {
			return nil, nil, err
		}
		if metadata.AltOffset[c], err = FloatToSignedFraction(float64(altOffset[c])); err != nil {
			return nil, nil, err
		}
		if metadata.BaseOffset[c], err = FloatToSignedFraction(float64(baseOffset[c])); err != nil {
			return nil, nil, err
		}
	}
	if singleChannel {
		replicateChannelZero(metadata)
	}

	for c := 0; c < numGainMapChannels; c++ {
		rangeLog2 := math32.Max(gainMapMaxLog2[c]-gainMapMinLog2[c], 0)
		if rangeLog2 == 0 {
			for i := range gainMapF[c] {
				gainMapF[c][i] = 0
			}
			continue
		}
		gamma := metadata.GainMapGamma[c].ToFloat()
		for i, v := range gainMapF[c] {
			v = clampRange(v, gainMapMinLog2[c], gainMapMaxLog2[c])
			v = math32.Pow((v-gainMapMinLog2[c])/rangeLog2, gamma)
			gainMapF[c][i] = clamp01(v)
		}
	}

	gainMapImage := NewRGBImage(width, height, FormatRGB)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := y*width + x
			r := gainMapF[0][off]
			g, b := r, r
			if !singleChannel {
				g, b = gainMapF[1][off], gainMapF[2][off]
			}
			gainMapImage.SetRGBAAt(x, y, r, g, b, 1)
		}
	}

	if opts.GainMapWidth > 0 && opts.GainMapHeight > 0 &&
		(opts.GainMapWidth != width || opts.GainMapHeight != height) {
		rescaler := opts.Rescaler
		if rescaler == nil {
			rescaler = DrawRescaler{}
		}
		resized, err := rescaler.Rescale(gainMapImage, opts.GainMapWidth, opts.GainMapHeight)
		if err != nil {
			opts.Diagnostics.Printf("failed to rescale computed gain map: %s", err)
			return nil, nil, err
		}
		gainMapImage = resized
	}

	return gainMapImage, metadata, nil
}

// AltDescriptor carries the alternate rendition's container-level
// properties that ComputeImage copies onto the returned metadata verbatim,
// the way avifImageComputeGainMap copies them from the alternate avifImage.
type AltDescriptor struct {
	ColorPrimaries          ColorPrimaries
	TransferCharacteristics TransferCharacteristic
	MatrixCoefficients      MatrixCoefficients
	Depth                   int
	PlaneCount              int
	CLLI                    CLLI
	ICC                     []byte
}

// ComputeImage is ComputeRGB for YUV-encoded base and alternate images,
// decoding both to RGB through conv before delegating, then stamping the
// alternate rendition's descriptor fields onto the resulting metadata. An ICC
// profile in altDesc is rejected with ErrNotImplemented; the base image has
// no ICC input here, so no base profile is checked.
func ComputeImage(baseYUV interface{}, baseMatrix MatrixCoefficients, baseRange YUVRange,
	baseColorPrimaries ColorPrimaries, baseTransfer TransferCharacteristic,
	altYUV interface{}, altMatrix MatrixCoefficients, altRange YUVRange, altDesc AltDescriptor,
	conv YUVConverter, opts *ComputeOptions) (*RGBImage, *GainMapMetadata, error) {

	if len(altDesc.ICC) > 0 {
		return nil, nil, errors.Wrap(ErrNotImplemented, "computing gain maps for images with ICC profiles is not supported")
	}
	if conv == nil {
		conv = StdlibYUVConverter{}
	}
	base, err := conv.ToRGB(baseYUV, baseMatrix, baseRange)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decoding base image to RGB")
	}
	alt, err := conv.ToRGB(altYUV, altMatrix, altRange)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decoding alternate image to RGB")
	}
	gainMapImage, metadata, err := ComputeRGB(base, baseColorPrimaries, baseTransfer, alt, altDesc.ColorPrimaries, altDesc.TransferCharacteristics, opts)
	if err != nil {
		return nil, nil, err
	}
	metadata.AltColorPrimaries = altDesc.ColorPrimaries
	metadata.AltTransferCharacteristics = altDesc.TransferCharacteristics
	metadata.AltMatrixCoefficients = altDesc.MatrixCoefficients
	metadata.AltDepth = altDesc.Depth
	metadata.AltPlaneCount = altDesc.PlaneCount
	metadata.AltCLLI = altDesc.CLLI
	metadata.AltICC = altDesc.ICC
	return gainMapImage, metadata, nil
}

func clampRange(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gainMapConversion wraps the single RGB-to-RGB matrix used to bring
// whichever side isn't the gain-map-math color space into it.
type gainMapConversion struct {
	forward *mat.Dense
}

func newGainMapConversion(useBaseColorSpace bool, altPrimaries, basePrimaries ColorPrimaries) (*gainMapConversion, error) {
	var m *mat.Dense
	var err error
	if useBaseColorSpace {
		m, err = colorPrimariesComputeRGBToRGBMatrix(altPrimaries, basePrimaries)
	} else {
		m, err = colorPrimariesComputeRGBToRGBMatrix(basePrimaries, altPrimaries)
	}
	if err != nil {
		return nil, err
	}
	return &gainMapConversion{forward: m}, nil
}

func (c *gainMapConversion) apply(v vec3) vec3 {
	return linearRGBConvertColorSpace(v, c.forward)
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"

	"github.com/go-imaging/gainmap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "apply":
		if err := runApply(os.Args[2:]); err != nil {
			fail(err)
		}
	case "compute":
		if err := runCompute(os.Args[2:]); err != nil {
			fail(err)
		}
	case "validate":
		if err := runValidate(os.Args[2:]); err != nil {
			fail(err)
		}
	case "weight":
		if err := runWeight(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: gainmaptool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  apply    -base base.jpg -gainmap gainmap.jpg -headroom 2.0 -out out.jpg")
	fmt.Fprintln(os.Stderr, "  compute  -base base.jpg -alt alt.jpg -out gainmap.jpg [-base-headroom 0] [-alt-headroom 1] [-single-channel]")
	fmt.Fprintln(os.Stderr, "  weight   -headroom 2.0 -base-headroom 0 -alt-headroom 4.32")
	fmt.Fprintln(os.Stderr, "  validate (reads nothing; exercises the metadata invariants on built-in defaults)")
}

func runApply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	basePath := fs.String("base", "", "base (SDR) JPEG")
	gainMapPath := fs.String("gainmap", "", "gain map JPEG")
	headroom := fs.Float64("headroom", 0, "target display HDR headroom, in stops over SDR white")
	outPath := fs.String("out", "", "output JPEG")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *basePath == "" || *gainMapPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}

	base, err := decodeJPEGFile(*basePath)
	if err != nil {
		return err
	}
	gainMapImg, err := decodeJPEGFile(*gainMapPath)
	if err != nil {
		return err
	}

	metadata := gainmap.EncodingDefaults()
	out, clli, err := gainmap.ApplyRGB(base, gainmap.PrimariesBT709, gainmap.TransferSRGB,
		gainMapImg, metadata, float32(*headroom), nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "maxCLL=%d maxPALL=%d\n", clli.MaxCLL, clli.MaxPALL)
	return encodeJPEGFile(*outPath, out)
}

func runCompute(args []string) error {
	fs := flag.NewFlagSet("compute", flag.ContinueOnError)
	basePath := fs.String("base", "", "base (SDR) JPEG")
	altPath := fs.String("alt", "", "alternate (HDR) JPEG")
	outPath := fs.String("out", "", "gain map output JPEG")
	singleChannel := fs.Bool("single-channel", false, "compute a luma-only gain map")
	baseHeadroom := fs.Float64("base-headroom", 0, "base image's HDR headroom")
	altHeadroom := fs.Float64("alt-headroom", 1, "alternate image's HDR headroom")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *basePath == "" || *altPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}

	base, err := decodeJPEGFile(*basePath)
	if err != nil {
		return err
	}
	alt, err := decodeJPEGFile(*altPath)
	if err != nil {
		return err
	}

	gainMapImg, metadata, err := gainmap.ComputeRGB(base, gainmap.PrimariesBT709, gainmap.TransferSRGB,
		alt, gainmap.PrimariesBT709, gainmap.TransferSRGB, &gainmap.ComputeOptions{
			SingleChannel:        *singleChannel,
			BaseHdrHeadroom:      baseHeadroom,
			AlternateHdrHeadroom: altHeadroom,
		})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "baseHdrHeadroom=%v alternateHdrHeadroom=%v\n",
		metadata.BaseHdrHeadroom.ToFloat(), metadata.AlternateHdrHeadroom.ToFloat())
	return encodeJPEGFile(*outPath, gainMapImg)
}

func runValidate(args []string) error {
	metadata := gainmap.EncodingDefaults()
	if err := gainmap.ValidateMetadata(metadata); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "ok")
	return nil
}

func runWeight(args []string) error {
	fs := flag.NewFlagSet("weight", flag.ContinueOnError)
	headroom := fs.Float64("headroom", 0, "display HDR headroom")
	baseHeadroom := fs.Float64("base-headroom", 0, "gain map's base HDR headroom")
	altHeadroom := fs.Float64("alt-headroom", 1, "gain map's alternate HDR headroom")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	base, err := gainmap.FloatToUnsignedFraction(*baseHeadroom)
	if err != nil {
		return err
	}
	alt, err := gainmap.FloatToUnsignedFraction(*altHeadroom)
	if err != nil {
		return err
	}
	metadata := &gainmap.GainMapMetadata{BaseHdrHeadroom: base, AlternateHdrHeadroom: alt}
	w := gainmap.Weight(float32(*headroom), metadata)
	fmt.Fprintln(os.Stdout, math32.Round(w*1000)/1000)
	return nil
}

func decodeJPEGFile(path string) (*gainmap.RGBImage, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		return nil, err
	}
	return gainmap.RGBImageFromImage(img), nil
}

func encodeJPEGFile(path string, img *gainmap.RGBImage) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, gainmap.ImageFromRGBImage(img), &jpeg.Options{Quality: 95})
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

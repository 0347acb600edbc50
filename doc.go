// Package gainmap implements a gain-map tone-mapping engine for HDR image
// interchange: given a base (typically SDR) image plus a companion gain map
// that encodes a per-channel log-ratio between the base and an alternate
// (typically HDR) rendition, it reconstructs an output image at an arbitrary
// display HDR headroom, and it can run the inverse process, synthesizing a
// gain map and its metadata from a base/alternate pair.
//
// Container parsing, codec encode/decode, and YUV<->RGB conversion are not
// this package's concern; it consumes them through the Rescaler and
// YUVConverter interfaces.
package gainmap

// Package imgtool reconciles raster assets: it pastes images onto each
// other with clipping, format conversion and optional resampling, and derives
// alpha channels from a luminance proxy.
//
// # Overview
//
// The core operations work on caller-owned [pixbuf.Buffer] values and are
// synchronous:
//
//	c := imgtool.NewCompositor(resampler)
//	err := c.Paste(dst, src, imgtool.Placement{X: 10, Y: 10, W: 64, H: 64})
//
//	err = imgtool.DeriveAlpha(dst)
//
// Glyph atlas canonicalization lives in the atlas package; resampling
// kernels in resample; file formats in codec. The imgtool command wires
// them together.
//
// # Placement
//
// A Placement may be written as "rect:x,y,w,h" or "rect:x,y" and parsed with
// [ParsePlacement]. Width or height 0 keeps the source size. Placements that
// fall partly or wholly outside the destination are clipped; an empty overlap
// is not an error.
//
// # Logging
//
// imgtool is silent by default. Use [SetLogger] to install a *slog.Logger.
package imgtool

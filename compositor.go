package imgtool

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/imgtool/pixbuf"
)

// Resampler produces a resized copy of a buffer in the given pixel format.
// Implementations must not mutate src and report a malformed source as a
// *pixbuf.DecodeError.
type Resampler interface {
	Resize(src *pixbuf.Buffer, width, height int, format pixbuf.Format) (*pixbuf.Buffer, error)
}

// Compositor pastes one buffer onto another, resizing through a Resampler
// when the requested placement differs from the source size and converting
// between pixel formats as needed.
//
// A Compositor holds no per-call state and may be reused.
type Compositor struct {
	resampler Resampler
	opts      options
}

// NewCompositor creates a Compositor that resizes with rs.
// rs may be nil if callers never request a size different from the source.
func NewCompositor(rs Resampler, opts ...Option) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Compositor{resampler: rs, opts: o}
}

func (c *Compositor) logger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return Logger()
}

// Paste copies src into dst at the placement at.
//
// The operation:
//  1. Defaults a zero at.W/at.H to the source size.
//  2. Resizes src to (at.W, at.H) in dst's format if the sizes differ.
//  3. Clips the placement against dst. An empty overlap is a no-op.
//  4. Copies the overlap row by row, converting pixel formats when needed.
//
// Clipping on the left or top shortens the copy without shifting the
// source origin: the first copied pixel is always source pixel (0, 0).
//
// dst is mutated only inside the clipped rectangle; src is never mutated.
// The only errors are nil or inconsistent buffers and resampler failures,
// in which case dst is left untouched. A resampler result that is not a
// valid buffer of the requested size is reported as a *pixbuf.DecodeError.
func (c *Compositor) Paste(dst, src *pixbuf.Buffer, at Placement) error {
	if err := dst.Check(); err != nil {
		return fmt.Errorf("imgtool: paste: destination: %w", err)
	}
	if err := src.Check(); err != nil {
		return fmt.Errorf("imgtool: paste: source: %w", err)
	}

	p := at.resolve(src.Width(), src.Height())
	if p.W <= 0 || p.H <= 0 {
		c.logger().Debug("paste: empty placement", "placement", p.String())
		return nil
	}

	if p.W != src.Width() || p.H != src.Height() {
		if c.resampler == nil {
			return ErrNoResampler
		}
		resized, err := c.resampler.Resize(src, p.W, p.H, dst.Format())
		if err != nil {
			return fmt.Errorf("imgtool: paste: resize %dx%d to %dx%d: %w",
				src.Width(), src.Height(), p.W, p.H, err)
		}
		if err := resized.Check(); err != nil {
			return fmt.Errorf("imgtool: paste: %w", &pixbuf.DecodeError{Op: "resize", Err: err})
		}
		if resized.Width() != p.W || resized.Height() != p.H {
			return fmt.Errorf("imgtool: paste: %w", &pixbuf.DecodeError{
				Op:  "resize",
				Err: fmt.Errorf("resampler returned %dx%d, want %dx%d", resized.Width(), resized.Height(), p.W, p.H),
			})
		}
		c.logger().Debug("paste: resized source",
			"from_w", src.Width(), "from_h", src.Height(), "to_w", p.W, "to_h", p.H)
		src = resized
	}

	x0, y0, w, h := clip(p, dst.Width(), dst.Height())
	if w <= 0 || h <= 0 {
		c.logger().Debug("paste: placement outside destination", "placement", p.String())
		return nil
	}

	copyRegion(dst, src, x0, y0, w, h)
	return nil
}

// clip intersects p with a dw x dh destination and returns the origin and
// size of the overlap. w or h is non-positive when there is no overlap.
func clip(p Placement, dw, dh int) (x0, y0, w, h int) {
	x0, y0 = max(0, p.X), max(0, p.Y)
	x1, y1 := min(dw, p.X+p.W), min(dh, p.Y+p.H)
	return x0, y0, x1 - x0, y1 - y0
}

// copyRegion copies the top-left w x h pixels of src into dst at (x0, y0).
// Both buffers' strides are honored independently.
func copyRegion(dst, src *pixbuf.Buffer, x0, y0, w, h int) {
	sf, df := src.Format(), dst.Format()
	sbpp, dbpp := sf.BytesPerPixel(), df.BytesPerPixel()

	for r := range h {
		srow := src.Row(r)[:w*sbpp]
		drow := dst.Row(y0 + r)[x0*dbpp : (x0+w)*dbpp]
		if sf == df {
			copy(drow, srow)
			continue
		}
		for col := range w {
			pixbuf.ConvertPixel(drow[col*dbpp:], df, srow[col*sbpp:], sf)
		}
	}
}

// Paste is a convenience wrapper that pastes with a one-off Compositor.
func Paste(dst, src *pixbuf.Buffer, at Placement, rs Resampler) error {
	return NewCompositor(rs).Paste(dst, src, at)
}

package pipeline

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/gogpu/imgtool"
	"github.com/gogpu/imgtool/pixbuf"
)

// Job describes one single-image run.
type Job struct {
	// Input is the image to process. Required.
	Input string

	// Output is where the result is written. Empty skips writing.
	Output string

	// Scale resizes the input by this factor before anything else.
	// Zero and one leave the size unchanged.
	Scale float64

	// Paste, when set, is composited onto the input at PasteAt.
	Paste   string
	PasteAt imgtool.Placement

	// Filter runs after pasting.
	Filter imgtool.Filter
}

// meshExtensions are inputs the tool recognizes but does not process.
var meshExtensions = map[string]bool{".obj": true, ".stl": true, ".ply": true}

// Process loads job.Input, applies scale, paste and filter in that order and
// writes the result to job.Output. It returns the final buffer.
func Process(ctx *Context, job Job) (*pixbuf.Buffer, error) {
	if job.Input == "" {
		return nil, ErrNoInput
	}
	if ext := strings.ToLower(filepath.Ext(job.Input)); meshExtensions[ext] {
		return nil, fmt.Errorf("%w: %s is a mesh", ErrUnsupportedInput, job.Input)
	}

	img, err := ctx.Loader.Load(job.Input)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	ctx.log().Info("input dim", "width", img.Width(), "height", img.Height(), "format", img.Format().String())

	if job.Scale > 0 && job.Scale != 1 {
		img, err = scale(ctx, img, job.Scale)
		if err != nil {
			return nil, err
		}
	}

	if job.Filter != imgtool.FilterNone && !img.Format().AlphaLast() {
		img, err = pixbuf.Convert(img, pixbuf.FormatRGBA8)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}

	if job.Paste != "" {
		src, err := ctx.Loader.Load(job.Paste)
		if err != nil {
			return nil, fmt.Errorf("pipeline: paste: %w", err)
		}
		c := imgtool.NewCompositor(ctx.Resampler, imgtool.WithLogger(ctx.log()))
		if err := c.Paste(img, src, job.PasteAt); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		ctx.log().Info("paste", "path", job.Paste, "at", job.PasteAt.String())
	}

	if err := job.Filter.Apply(img); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if job.Filter != imgtool.FilterNone {
		ctx.log().Info("filter", "name", job.Filter.String())
	}

	if job.Output != "" {
		n, err := ctx.Codec.Encode(img, job.Output)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		ctx.log().Info("write", "path", job.Output, "bytes", n)
	}
	return img, nil
}

func scale(ctx *Context, img *pixbuf.Buffer, factor float64) (*pixbuf.Buffer, error) {
	w := max(1, int(math.Round(float64(img.Width())*factor)))
	h := max(1, int(math.Round(float64(img.Height())*factor)))
	if ctx.Resampler == nil {
		return nil, imgtool.ErrNoResampler
	}
	out, err := ctx.Resampler.Resize(img, w, h, img.Format())
	if err != nil {
		return nil, fmt.Errorf("pipeline: scale: %w", err)
	}
	ctx.log().Debug("scaled input", "factor", factor, "width", w, "height", h)
	return out, nil
}

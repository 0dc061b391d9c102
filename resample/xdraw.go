package resample

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/imgtool/pixbuf"
)

// XDraw resizes through golang.org/x/image/draw interpolators.
type XDraw struct {
	kind   Kind
	interp draw.Interpolator
}

func newXDraw(kind Kind) *XDraw {
	var interp draw.Interpolator
	switch kind {
	case XDrawNearest:
		interp = draw.NearestNeighbor
	case XDrawCatmullRom:
		interp = draw.CatmullRom
	default:
		interp = draw.BiLinear
	}
	return &XDraw{kind: kind, interp: interp}
}

// Resize implements Resizer.
func (r *XDraw) Resize(src *pixbuf.Buffer, width, height int, format pixbuf.Format) (*pixbuf.Buffer, error) {
	if err := checkArgs(src, width, height, format); err != nil {
		return nil, err
	}
	in := src.Image()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	r.interp.Scale(out, out.Bounds(), in, in.Bounds(), draw.Src, nil)
	return toFormat(out, format)
}

// toFormat copies a std image into a buffer of the requested format.
func toFormat(img image.Image, format pixbuf.Format) (*pixbuf.Buffer, error) {
	buf, err := pixbuf.FromImage(img)
	if err != nil {
		return nil, &pixbuf.DecodeError{Op: "resize", Err: err}
	}
	if buf.Format() == format {
		return buf, nil
	}
	return pixbuf.Convert(buf, format)
}

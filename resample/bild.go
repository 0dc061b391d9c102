package resample

import (
	"github.com/anthonynsimon/bild/transform"

	"github.com/gogpu/imgtool/pixbuf"
)

// Bild resizes with github.com/anthonynsimon/bild resampling filters.
// Bild produces premultiplied RGBA which is converted to the requested format.
type Bild struct {
	kind   Kind
	filter transform.ResampleFilter
}

func newBild(kind Kind) *Bild {
	filter := transform.Lanczos
	switch kind {
	case Mitchell:
		filter = transform.MitchellNetravali
	case Gaussian:
		filter = transform.Gaussian
	case Box:
		filter = transform.Box
	}
	return &Bild{kind: kind, filter: filter}
}

// Resize implements Resizer.
func (r *Bild) Resize(src *pixbuf.Buffer, width, height int, format pixbuf.Format) (*pixbuf.Buffer, error) {
	if err := checkArgs(src, width, height, format); err != nil {
		return nil, err
	}
	return toFormat(transform.Resize(src.Image(), width, height, r.filter), format)
}

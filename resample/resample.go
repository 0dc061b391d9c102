// Package resample provides the resizing collaborators used by the
// compositor.
//
// Three families of kernels are available behind one constructor:
//
//   - the builtin point samplers (nearest, bilinear, bicubic Catmull-Rom),
//   - golang.org/x/image/draw interpolators,
//   - github.com/anthonynsimon/bild resampling filters.
//
// Every implementation returns a freshly allocated buffer in the requested
// pixel format and never mutates its source.
package resample

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/imgtool/pixbuf"
)

// Errors returned by resamplers.
var (
	// ErrInvalidSize is returned when the requested size is not positive.
	ErrInvalidSize = errors.New("resample: target size must be positive")

	// ErrUnknownKind is returned by New for an unregistered kernel name.
	ErrUnknownKind = errors.New("resample: unknown kind")
)

// Resizer resizes a buffer to a new size and pixel format.
type Resizer interface {
	Resize(src *pixbuf.Buffer, width, height int, format pixbuf.Format) (*pixbuf.Buffer, error)
}

// Kind names a resampling kernel.
type Kind string

// Kernel names accepted by New.
const (
	Nearest         Kind = "nearest"
	Bilinear        Kind = "bilinear"
	Bicubic         Kind = "bicubic"
	XDrawNearest    Kind = "xdraw-nearest"
	XDrawBilinear   Kind = "xdraw-bilinear"
	XDrawCatmullRom Kind = "xdraw-catmullrom"
	Lanczos         Kind = "lanczos"
	Mitchell        Kind = "mitchell"
	Gaussian        Kind = "gaussian"
	Box             Kind = "box"
)

// Default is the kernel used when nothing else is configured.
const Default = Bilinear

var registry = map[Kind]func() Resizer{
	Nearest:         func() Resizer { return &Builtin{Mode: InterpNearest} },
	Bilinear:        func() Resizer { return &Builtin{Mode: InterpBilinear} },
	Bicubic:         func() Resizer { return &Builtin{Mode: InterpBicubic} },
	XDrawNearest:    func() Resizer { return newXDraw(XDrawNearest) },
	XDrawBilinear:   func() Resizer { return newXDraw(XDrawBilinear) },
	XDrawCatmullRom: func() Resizer { return newXDraw(XDrawCatmullRom) },
	Lanczos:         func() Resizer { return newBild(Lanczos) },
	Mitchell:        func() Resizer { return newBild(Mitchell) },
	Gaussian:        func() Resizer { return newBild(Gaussian) },
	Box:             func() Resizer { return newBild(Box) },
}

// New returns the resizer registered under kind.
// An empty kind selects Default.
func New(kind Kind) (Resizer, error) {
	if kind == "" {
		kind = Default
	}
	ctor, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return ctor(), nil
}

// Kinds lists the registered kernel names in sorted order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// checkArgs validates a resize request. A malformed source is a DecodeError;
// a bad target is ErrInvalidSize.
func checkArgs(src *pixbuf.Buffer, width, height int, format pixbuf.Format) error {
	if err := src.Check(); err != nil {
		return &pixbuf.DecodeError{Op: "resize", Err: err}
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if !format.IsValid() {
		return pixbuf.ErrInvalidFormat
	}
	return nil
}

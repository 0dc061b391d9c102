package resample

import (
	"math"

	"github.com/gogpu/imgtool/pixbuf"
)

// InterpolationMode selects the builtin sampling kernel.
type InterpolationMode uint8

const (
	// InterpNearest selects the closest pixel (no interpolation).
	InterpNearest InterpolationMode = iota

	// InterpBilinear interpolates linearly between 4 neighboring pixels.
	InterpBilinear

	// InterpBicubic uses a Catmull-Rom spline over a 4x4 neighborhood.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

// Builtin resizes by point-sampling the source at each destination pixel
// center. It works directly on pixbuf buffers and needs no intermediate
// image.Image conversion.
type Builtin struct {
	Mode InterpolationMode
}

// Resize implements Resizer.
func (r *Builtin) Resize(src *pixbuf.Buffer, width, height int, format pixbuf.Format) (*pixbuf.Buffer, error) {
	if err := checkArgs(src, width, height, format); err != nil {
		return nil, err
	}
	dst, err := pixbuf.New(width, height, format)
	if err != nil {
		return nil, err
	}

	bpp := format.BytesPerPixel()
	for y := range height {
		row := dst.Row(y)
		v := (float64(y) + 0.5) / float64(height)
		for x := range width {
			u := (float64(x) + 0.5) / float64(width)
			pixbuf.Encode(format, row[x*bpp:], r.sample(src, u, v))
		}
	}
	return dst, nil
}

// sample samples src at normalized coordinates (u, v) in [0, 1].
// Out-of-range neighbors are clamped to the edge.
func (r *Builtin) sample(src *pixbuf.Buffer, u, v float64) pixbuf.RGBA {
	switch r.Mode {
	case InterpBilinear:
		return sampleBilinear(src, u, v)
	case InterpBicubic:
		return sampleBicubic(src, u, v)
	default:
		return sampleNearest(src, u, v)
	}
}

func sampleNearest(img *pixbuf.Buffer, u, v float64) pixbuf.RGBA {
	w, h := img.Size()
	x := clamp(int(math.Floor(u*float64(w))), 0, w-1)
	y := clamp(int(math.Floor(v*float64(h))), 0, h-1)
	return img.RGBA(x, y)
}

func sampleBilinear(img *pixbuf.Buffer, u, v float64) pixbuf.RGBA {
	w, h := img.Size()

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clamp(x0+1, 0, w-1)
	y1 := clamp(y0+1, 0, h-1)
	x0 = clamp(x0, 0, w-1)
	y0 = clamp(y0, 0, h-1)

	c00, c10 := img.RGBA(x0, y0), img.RGBA(x1, y0)
	c01, c11 := img.RGBA(x0, y1), img.RGBA(x1, y1)

	ch := func(a, b, c, d uint8) uint8 {
		top := lerp(float64(a), float64(b), tx)
		bot := lerp(float64(c), float64(d), tx)
		return uint8(math.Round(lerp(top, bot, ty)))
	}
	return pixbuf.RGBA{
		R: ch(c00.R, c10.R, c01.R, c11.R),
		G: ch(c00.G, c10.G, c01.G, c11.G),
		B: ch(c00.B, c10.B, c01.B, c11.B),
		A: ch(c00.A, c10.A, c01.A, c11.A),
	}
}

func sampleBicubic(img *pixbuf.Buffer, u, v float64) pixbuf.RGBA {
	w, h := img.Size()

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x := int(math.Floor(fx))
	y := int(math.Floor(fy))
	tx := fx - float64(x)
	ty := fy - float64(y)

	wx := [4]float64{cubicWeight(tx + 1), cubicWeight(tx), cubicWeight(tx - 1), cubicWeight(tx - 2)}
	wy := [4]float64{cubicWeight(ty + 1), cubicWeight(ty), cubicWeight(ty - 1), cubicWeight(ty - 2)}

	var acc [4]float64
	for j := range 4 {
		py := clamp(y+j-1, 0, h-1)
		for i := range 4 {
			px := clamp(x+i-1, 0, w-1)
			c := img.RGBA(px, py)
			wt := wx[i] * wy[j]
			acc[0] += float64(c.R) * wt
			acc[1] += float64(c.G) * wt
			acc[2] += float64(c.B) * wt
			acc[3] += float64(c.A) * wt
		}
	}
	return pixbuf.RGBA{R: toByte(acc[0]), G: toByte(acc[1]), B: toByte(acc[2]), A: toByte(acc[3])}
}

// cubicWeight is the Catmull-Rom kernel (Mitchell-Netravali B=0, C=0.5).
func cubicWeight(t float64) float64 {
	a := math.Abs(t)
	switch {
	case a < 1:
		return 1.5*a*a*a - 2.5*a*a + 1
	case a < 2:
		return -0.5*a*a*a + 2.5*a*a - 4*a + 2
	default:
		return 0
	}
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

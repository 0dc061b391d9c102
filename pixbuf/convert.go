package pixbuf

// RGBA is a straight (non-premultiplied) 8-bit color.
type RGBA struct {
	R, G, B, A uint8
}

// Decode reads one pixel of the given format and returns it as straight RGBA.
// Grayscale and RGB formats decode as opaque. p must hold at least
// f.BytesPerPixel() bytes.
func Decode(f Format, p []byte) RGBA {
	switch f {
	case FormatGray8:
		return RGBA{p[0], p[0], p[0], 255}
	case FormatGray16:
		// Little-endian; the high byte carries the 8-bit value.
		return RGBA{p[1], p[1], p[1], 255}
	case FormatRGB8:
		return RGBA{p[0], p[1], p[2], 255}
	case FormatRGBA8:
		return RGBA{p[0], p[1], p[2], p[3]}
	case FormatBGRA8:
		return RGBA{p[2], p[1], p[0], p[3]}
	case FormatRGBAPremul:
		return unpremultiply(p[0], p[1], p[2], p[3])
	case FormatBGRAPremul:
		return unpremultiply(p[2], p[1], p[0], p[3])
	default:
		return RGBA{}
	}
}

// Encode writes c into p using format f.
// Grayscale targets use Rec. 601 luminance weights; formats without alpha
// drop it.
func Encode(f Format, p []byte, c RGBA) {
	switch f {
	case FormatGray8:
		p[0] = luma(c)
	case FormatGray16:
		g := luma(c)
		p[0] = g
		p[1] = g
	case FormatRGB8:
		p[0], p[1], p[2] = c.R, c.G, c.B
	case FormatRGBA8:
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	case FormatBGRA8:
		p[0], p[1], p[2], p[3] = c.B, c.G, c.R, c.A
	case FormatRGBAPremul:
		r, g, b := premultiply(c)
		p[0], p[1], p[2], p[3] = r, g, b, c.A
	case FormatBGRAPremul:
		r, g, b := premultiply(c)
		p[0], p[1], p[2], p[3] = b, g, r, c.A
	}
}

// ConvertPixel converts one pixel from src (format from) into dst (format to).
func ConvertPixel(dst []byte, to Format, src []byte, from Format) {
	if from == to {
		copy(dst[:to.BytesPerPixel()], src)
		return
	}
	Encode(to, dst, Decode(from, src))
}

// Convert returns a copy of b in the requested format.
// When the formats already match the result is a packed clone.
func Convert(b *Buffer, to Format) (*Buffer, error) {
	if err := b.Check(); err != nil {
		return nil, err
	}
	if b.format == to {
		return b.Clone(), nil
	}
	out, err := New(b.width, b.height, to)
	if err != nil {
		return nil, err
	}
	sbpp, dbpp := b.format.BytesPerPixel(), to.BytesPerPixel()
	for y := range b.height {
		srow, drow := b.Row(y), out.Row(y)
		for x := range b.width {
			ConvertPixel(drow[x*dbpp:], to, srow[x*sbpp:], b.format)
		}
	}
	return out, nil
}

func luma(c RGBA) uint8 {
	return uint8((int(c.R)*299 + int(c.G)*587 + int(c.B)*114) / 1000)
}

func premultiply(c RGBA) (r, g, b uint8) {
	a := uint16(c.A)
	r = uint8((uint16(c.R)*a + 127) / 255)
	g = uint8((uint16(c.G)*a + 127) / 255)
	b = uint8((uint16(c.B)*a + 127) / 255)
	return r, g, b
}

func unpremultiply(r, g, b, a uint8) RGBA {
	switch a {
	case 0:
		return RGBA{}
	case 255:
		return RGBA{r, g, b, 255}
	}
	un := func(v uint8) uint8 {
		x := (uint32(v)*255 + uint32(a)/2) / uint32(a)
		if x > 255 {
			x = 255
		}
		return uint8(x)
	}
	return RGBA{un(r), un(g), un(b), a}
}

// Package pixbuf provides stride-aware raster buffers and the pixel format
// conversions used by the compositing and atlas tools.
//
// A Buffer owns (or borrows, see FromRaw) a contiguous byte slice in which row
// r starts at r*Stride and spans Width*BytesPerPixel bytes. Stride may exceed
// the packed row size; every routine in this module honors it.
package pixbuf

// Buffer is an in-memory raster image with an explicit row stride.
//
// Buffers are not safe for concurrent mutation. Concurrent readers are fine
// as long as nobody writes.
type Buffer struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// New creates a zeroed buffer with a packed stride.
func New(width, height int, format Format) (*Buffer, error) {
	return NewWithStride(width, height, format, format.RowBytes(width))
}

// NewWithStride creates a zeroed buffer whose rows are stride bytes apart.
// Stride must be at least format.RowBytes(width).
func NewWithStride(width, height int, format Format, stride int) (*Buffer, error) {
	if err := validate(width, height, format, stride); err != nil {
		return nil, err
	}
	return &Buffer{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw wraps existing pixel data without copying.
// The caller must keep data alive and unmodified for as long as the Buffer is used.
func FromRaw(data []byte, width, height int, format Format, stride int) (*Buffer, error) {
	if err := validate(width, height, format, stride); err != nil {
		return nil, err
	}
	if len(data) < stride*height {
		return nil, ErrDataTooSmall
	}
	return &Buffer{
		data:   data[:stride*height],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

func validate(width, height int, format Format, stride int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if !format.IsValid() {
		return ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return ErrInvalidStride
	}
	return nil
}

// Check reports whether b is internally consistent. It is used by
// collaborators that receive buffers from untrusted code paths.
func (b *Buffer) Check() error {
	if b == nil {
		return ErrNilBuffer
	}
	if err := validate(b.width, b.height, b.format, b.stride); err != nil {
		return err
	}
	// A sub-image view may legally end right after its last pixel.
	if len(b.data) < (b.height-1)*b.stride+b.format.RowBytes(b.width) {
		return ErrDataTooSmall
	}
	return nil
}

// Clone returns a deep copy of b with a packed stride.
func (b *Buffer) Clone() *Buffer {
	rowBytes := b.format.RowBytes(b.width)
	c := &Buffer{
		data:   make([]byte, rowBytes*b.height),
		width:  b.width,
		height: b.height,
		stride: rowBytes,
		format: b.format,
	}
	for y := range b.height {
		copy(c.data[y*rowBytes:(y+1)*rowBytes], b.Row(y))
	}
	return c
}

// Width returns the image width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *Buffer) Height() int { return b.height }

// Stride returns the number of bytes between the starts of two rows.
func (b *Buffer) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *Buffer) Format() Format { return b.format }

// Size returns the image dimensions as (width, height).
func (b *Buffer) Size() (int, int) { return b.width, b.height }

// Data returns the raw pixel data, including any stride padding.
func (b *Buffer) Data() []byte { return b.data }

// Row returns the pixel bytes of row y without padding.
// Returns nil if y is out of bounds.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// PixelOffset returns the byte offset of pixel (x, y), or -1 when the
// coordinates are out of bounds.
func (b *Buffer) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// Pixel returns the raw bytes of pixel (x, y), or nil when out of bounds.
func (b *Buffer) Pixel(x, y int) []byte {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return nil
	}
	return b.data[off : off+b.format.BytesPerPixel()]
}

// RGBA returns the straight-alpha color at (x, y).
// Returns (0,0,0,0) when out of bounds.
func (b *Buffer) RGBA(x, y int) RGBA {
	p := b.Pixel(x, y)
	if p == nil {
		return RGBA{}
	}
	return Decode(b.format, p)
}

// SetRGBA stores a straight-alpha color at (x, y).
// Returns ErrOutOfBounds if the coordinates are outside the buffer.
func (b *Buffer) SetRGBA(x, y int, c RGBA) error {
	p := b.Pixel(x, y)
	if p == nil {
		return ErrOutOfBounds
	}
	Encode(b.format, p, c)
	return nil
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c RGBA) {
	bpp := b.format.BytesPerPixel()
	px := make([]byte, bpp)
	Encode(b.format, px, c)
	for y := range b.height {
		row := b.Row(y)
		for off := 0; off < len(row); off += bpp {
			copy(row[off:off+bpp], px)
		}
	}
}

// SubImage returns a view into a rectangular region of b.
// The view shares b's data and stride; writes through either are visible in both.
// Returns nil if the region is empty or not fully inside b.
func (b *Buffer) SubImage(x, y, width, height int) *Buffer {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil
	}
	if x+width > b.width || y+height > b.height {
		return nil
	}
	bpp := b.format.BytesPerPixel()
	start := y*b.stride + x*bpp
	end := (y+height-1)*b.stride + (x+width)*bpp
	return &Buffer{
		data:   b.data[start:end],
		width:  width,
		height: height,
		stride: b.stride,
		format: b.format,
	}
}

// Equal reports whether a and b have the same size, format and visible
// pixel bytes. Stride padding is ignored.
func Equal(a, b *Buffer) bool {
	if a.width != b.width || a.height != b.height || a.format != b.format {
		return false
	}
	for y := range a.height {
		if string(a.Row(y)) != string(b.Row(y)) {
			return false
		}
	}
	return true
}

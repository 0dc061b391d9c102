package pixbuf

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatGray8 is 8-bit grayscale (1 byte per pixel).
	FormatGray8 Format = iota

	// FormatGray16 is 16-bit little-endian grayscale (2 bytes per pixel).
	FormatGray16

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no alpha).
	FormatRGB8

	// FormatRGBA8 is 32-bit straight-alpha RGBA (4 bytes per pixel).
	FormatRGBA8

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha.
	FormatRGBAPremul

	// FormatBGRA8 is 32-bit straight-alpha BGRA.
	FormatBGRA8

	// FormatBGRAPremul is 32-bit BGRA with premultiplied alpha.
	FormatBGRAPremul

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// Name is the canonical name used in logs and config files.
	Name string

	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// Channels is the number of color channels.
	Channels int

	// HasAlpha indicates if the format has an alpha channel.
	HasAlpha bool

	// IsPremultiplied indicates if color channels are premultiplied by alpha.
	IsPremultiplied bool

	// IsGrayscale indicates a single luminance channel.
	IsGrayscale bool

	// SwapRB is true when red and blue are stored in reverse order.
	SwapRB bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatGray8:      {Name: "Gray8", BytesPerPixel: 1, Channels: 1, IsGrayscale: true},
	FormatGray16:     {Name: "Gray16", BytesPerPixel: 2, Channels: 1, IsGrayscale: true},
	FormatRGB8:       {Name: "RGB8", BytesPerPixel: 3, Channels: 3},
	FormatRGBA8:      {Name: "RGBA8", BytesPerPixel: 4, Channels: 4, HasAlpha: true},
	FormatRGBAPremul: {Name: "RGBAPremul", BytesPerPixel: 4, Channels: 4, HasAlpha: true, IsPremultiplied: true},
	FormatBGRA8:      {Name: "BGRA8", BytesPerPixel: 4, Channels: 4, HasAlpha: true, SwapRB: true},
	FormatBGRAPremul: {Name: "BGRAPremul", BytesPerPixel: 4, Channels: 4, HasAlpha: true, IsPremultiplied: true, SwapRB: true},
}

// Info returns the FormatInfo for this format.
// Unknown formats report a zero FormatInfo.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsPremultiplied returns true if alpha is premultiplied.
func (f Format) IsPremultiplied() bool {
	return f.Info().IsPremultiplied
}

// IsValid returns true if the format is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// AlphaLast reports whether pixels are four bytes wide with alpha stored
// in the last byte.
func (f Format) AlphaLast() bool {
	info := f.Info()
	return info.HasAlpha && info.BytesPerPixel == 4
}

// RowBytes returns the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// String returns the canonical name of the format.
func (f Format) String() string {
	if !f.IsValid() {
		return "Unknown"
	}
	return formatInfoTable[f].Name
}

// ParseFormat looks up a format by its canonical name (case-sensitive).
func ParseFormat(name string) (Format, bool) {
	for i, info := range formatInfoTable {
		if info.Name == name {
			return Format(i), true
		}
	}
	return 0, false
}

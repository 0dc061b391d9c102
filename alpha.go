package imgtool

import (
	"fmt"
	"strings"

	"github.com/gogpu/imgtool/pixbuf"
)

// DeriveAlpha replaces every pixel's alpha with its first channel, in place.
//
// The first channel serves as a luminance proxy: for RGBA formats that is
// red, for BGRA formats blue. No perceptual weighting is applied. Color
// channels are left as they are, including for premultiplied formats.
//
// Buffers that are not four bytes per pixel with a trailing alpha byte are
// rejected with ErrUnsupportedFormat before anything is written.
func DeriveAlpha(b *pixbuf.Buffer) error {
	if err := b.Check(); err != nil {
		return fmt.Errorf("imgtool: derive alpha: %w", err)
	}
	if !b.Format().AlphaLast() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, b.Format())
	}

	for y := range b.Height() {
		row := b.Row(y)
		for off := 0; off < len(row); off += 4 {
			row[off+3] = row[off]
		}
	}
	return nil
}

// Filter is an in-place post-processing step applied to a loaded image.
type Filter uint8

const (
	// FilterNone leaves the buffer unchanged.
	FilterNone Filter = iota

	// FilterDarkToAlpha applies DeriveAlpha so dark pixels become transparent.
	FilterDarkToAlpha
)

// String returns the command-line name of the filter.
func (f Filter) String() string {
	switch f {
	case FilterNone:
		return ""
	case FilterDarkToAlpha:
		return "dark2alpha"
	default:
		return "unknown"
	}
}

// ParseFilter maps a command-line name to a Filter. The empty string is
// FilterNone.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return FilterNone, nil
	case "dark2alpha":
		return FilterDarkToAlpha, nil
	default:
		return FilterNone, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
}

// Apply runs the filter on b.
func (f Filter) Apply(b *pixbuf.Buffer) error {
	switch f {
	case FilterNone:
		return nil
	case FilterDarkToAlpha:
		return DeriveAlpha(b)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFilter, f)
	}
}

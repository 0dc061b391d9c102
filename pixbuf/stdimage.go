package pixbuf

import (
	"image"
	"image/color"
)

// FromImage copies a standard library image into a new Buffer.
//
// *image.NRGBA becomes FormatRGBA8, *image.RGBA becomes FormatRGBAPremul and
// *image.Gray becomes FormatGray8. Every other image type goes through its
// color model and lands in FormatRGBA8.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.NRGBA:
		return copyPix(src.Pix, src.Stride, w, h, FormatRGBA8)
	case *image.RGBA:
		return copyPix(src.Pix, src.Stride, w, h, FormatRGBAPremul)
	case *image.Gray:
		return copyPix(src.Pix, src.Stride, w, h, FormatGray8)
	}

	buf, err := New(w, h, FormatRGBA8)
	if err != nil {
		return nil, err
	}
	for y := range h {
		row := buf.Row(y)
		for x := range w {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := x * 4
			row[off], row[off+1], row[off+2], row[off+3] = c.R, c.G, c.B, c.A
		}
	}
	return buf, nil
}

// copyPix copies a Pix slice whose first byte is the image origin.
func copyPix(pix []byte, stride, w, h int, format Format) (*Buffer, error) {
	buf, err := New(w, h, format)
	if err != nil {
		return nil, err
	}
	n := format.RowBytes(w)
	for y := range h {
		copy(buf.Row(y), pix[y*stride:y*stride+n])
	}
	return buf, nil
}

// Image converts b to a standard library image for encoding or for
// third-party image libraries.
//
// Gray8 maps to *image.Gray, premultiplied formats to *image.RGBA and
// everything else to *image.NRGBA.
func (b *Buffer) Image() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch {
	case b.format == FormatGray8:
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.Row(y))
		}
		return gray

	case b.format == FormatRGBAPremul:
		rgba := image.NewRGBA(rect)
		for y := range b.height {
			copy(rgba.Pix[y*rgba.Stride:], b.Row(y))
		}
		return rgba

	case b.format == FormatBGRAPremul:
		rgba := image.NewRGBA(rect)
		for y := range b.height {
			row := b.Row(y)
			dst := rgba.Pix[y*rgba.Stride:]
			for x := 0; x < len(row); x += 4 {
				dst[x], dst[x+1], dst[x+2], dst[x+3] = row[x+2], row[x+1], row[x], row[x+3]
			}
		}
		return rgba

	case b.format == FormatRGBA8:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			copy(nrgba.Pix[y*nrgba.Stride:], b.Row(y))
		}
		return nrgba

	default:
		nrgba := image.NewNRGBA(rect)
		bpp := b.format.BytesPerPixel()
		for y := range b.height {
			row := b.Row(y)
			dst := nrgba.Pix[y*nrgba.Stride:]
			for x := range b.width {
				c := Decode(b.format, row[x*bpp:])
				o := x * 4
				dst[o], dst[o+1], dst[o+2], dst[o+3] = c.R, c.G, c.B, c.A
			}
		}
		return nrgba
	}
}

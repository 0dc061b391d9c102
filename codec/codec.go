// Package codec reads and writes raster files as pixbuf buffers.
//
// Decoding sniffs the content with github.com/h2non/filetype instead of
// trusting file names, then dispatches to the standard library or
// golang.org/x/image decoders. Encoding picks the format from the output
// file extension.
//
// Supported formats:
//
//	Format  Decode  Encode
//	png     yes     yes
//	jpeg    yes     yes
//	gif     yes     no   (first frame only)
//	bmp     yes     yes
//	tiff    yes     yes
//	webp    yes     no
package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/gogpu/imgtool/pixbuf"
)

var (
	// ErrUnsupportedFormat is returned for content or extensions the codec
	// cannot handle.
	ErrUnsupportedFormat = errors.New("codec: unsupported image format")

	// ErrEmptyData is returned when Decode receives no bytes.
	ErrEmptyData = errors.New("codec: empty image data")
)

// Format names a raster file format.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	WebP Format = "webp"
)

// DefaultJPEGQuality is used when FileCodec.JPEGQuality is zero.
const DefaultJPEGQuality = 90

// sniffed maps filetype extensions to formats.
var sniffed = map[string]Format{
	"png":  PNG,
	"jpg":  JPEG,
	"gif":  GIF,
	"bmp":  BMP,
	"tif":  TIFF,
	"webp": WebP,
}

// extensions maps lower-case file extensions to formats.
var extensions = map[string]Format{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".gif":  GIF,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
	".webp": WebP,
}

// Sniff identifies the format of encoded image data from its magic bytes.
func Sniff(data []byte) (Format, error) {
	if len(data) == 0 {
		return "", ErrEmptyData
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("codec: sniff: %w", err)
	}
	if kind == filetype.Unknown {
		return "", fmt.Errorf("%w: unrecognized content", ErrUnsupportedFormat)
	}
	f, ok := sniffed[kind.Extension]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}
	return f, nil
}

// FormatForPath returns the format implied by the extension of path.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

// FileCodec decodes and encodes the formats listed in the package
// documentation. The zero value is ready to use.
type FileCodec struct {
	// JPEGQuality is the JPEG encoder quality in [1, 100].
	// Zero selects DefaultJPEGQuality.
	JPEGQuality int
}

// Decode sniffs and decodes data into a buffer.
// Images with an alpha channel decode to RGBA8 or RGBAPremul, grayscale images
// to Gray8. Undecodable content is reported as *pixbuf.DecodeError.
func (c *FileCodec) Decode(data []byte) (*pixbuf.Buffer, error) {
	f, err := Sniff(data)
	if err != nil {
		return nil, err
	}

	var img image.Image
	r := bytes.NewReader(data)
	switch f {
	case PNG:
		img, err = png.Decode(r)
	case JPEG:
		img, err = jpeg.Decode(r)
	case GIF:
		img, err = gif.Decode(r)
	case BMP:
		img, err = bmp.Decode(r)
	case TIFF:
		img, err = tiff.Decode(r)
	case WebP:
		img, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, &pixbuf.DecodeError{Op: "decode " + string(f), Err: err}
	}

	return pixbuf.FromImage(img)
}

// Encode writes b to path in the format implied by its extension and returns
// the number of bytes written. The file is created or truncated.
func (c *FileCodec) Encode(b *pixbuf.Buffer, path string) (int64, error) {
	f, err := FormatForPath(path)
	if err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("codec: encode: %w", err)
	}
	n, err := c.EncodeTo(file, b, f)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("codec: encode: %w", cerr)
	}
	return n, err
}

// EncodeTo writes b to w in format f and returns the number of bytes written.
func (c *FileCodec) EncodeTo(w io.Writer, b *pixbuf.Buffer, f Format) (int64, error) {
	if err := b.Check(); err != nil {
		return 0, fmt.Errorf("codec: encode: %w", err)
	}

	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	img := b.Image()

	var err error
	switch f {
	case PNG:
		err = png.Encode(bw, img)
	case JPEG:
		err = jpeg.Encode(bw, img, &jpeg.Options{Quality: c.quality()})
	case BMP:
		err = bmp.Encode(bw, img)
	case TIFF:
		err = tiff.Encode(bw, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return 0, fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, f)
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return cw.n, fmt.Errorf("codec: encode %s: %w", f, err)
	}
	return cw.n, nil
}

func (c *FileCodec) quality() int {
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		return DefaultJPEGQuality
	}
	return c.JPEGQuality
}

// countingWriter counts bytes passed through to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

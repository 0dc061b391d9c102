package pixbuf

import "errors"

// Common errors for buffer construction and access.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pixbuf: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("pixbuf: invalid format")

	// ErrInvalidStride is returned when stride is less than the packed row size.
	ErrInvalidStride = errors.New("pixbuf: stride too small for width")

	// ErrDataTooSmall is returned when the backing slice cannot hold every row.
	ErrDataTooSmall = errors.New("pixbuf: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside the buffer.
	ErrOutOfBounds = errors.New("pixbuf: coordinates out of bounds")

	// ErrNilBuffer is returned when a nil *Buffer is passed where one is required.
	ErrNilBuffer = errors.New("pixbuf: nil buffer")
)

// DecodeError reports a malformed or undecodable raster.
// Op names the operation that rejected the input ("resize", "decode", ...).
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "pixbuf: " + e.Op + ": malformed image"
	}
	return "pixbuf: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

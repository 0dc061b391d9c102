package imgtool

import "errors"

// Sentinel errors for the compositing core.
var (
	// ErrUnsupportedFormat is returned by DeriveAlpha for formats that are
	// not four bytes per pixel with alpha in the last byte.
	ErrUnsupportedFormat = errors.New("imgtool: format has no trailing alpha channel")

	// ErrNoResampler is returned when a paste needs a resize but the
	// Compositor was built without a Resampler.
	ErrNoResampler = errors.New("imgtool: resize required but no resampler configured")

	// ErrInvalidPlacement is returned when a placement string cannot be parsed.
	ErrInvalidPlacement = errors.New("imgtool: invalid placement")

	// ErrUnknownFilter is returned by ParseFilter for an unknown filter name.
	ErrUnknownFilter = errors.New("imgtool: unknown filter")
)

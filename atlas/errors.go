package atlas

import "errors"

var (
	// ErrAtlasFull is returned by a Packer when the images do not fit.
	ErrAtlasFull = errors.New("atlas: images do not fit in atlas")

	// ErrRectOutOfBounds is returned by an Exporter when an entry's rect
	// extends past the atlas image.
	ErrRectOutOfBounds = errors.New("atlas: rect outside atlas bounds")

	// ErrUnknownGlyphFormat is returned for glyph files with an
	// unrecognized extension.
	ErrUnknownGlyphFormat = errors.New("atlas: unknown glyph file format")

	// ErrNoGlyphs is returned by FontSource when no rune in the requested
	// range maps to a glyph.
	ErrNoGlyphs = errors.New("atlas: font has no glyphs in range")
)

// ConfigError represents a packer or font configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

package atlas

import (
	"bytes"
	"fmt"
	"image"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/imgtool/pixbuf"
)

// Default rune range rasterized by FontSource.
const (
	DefaultFirstRune rune = 0
	DefaultLastRune  rune = 255
)

// FontSource rasterizes a range of runes from a TrueType or OpenType font
// into glyph images ready for packing.
//
// Rune to glyph lookup and advances come from go-text/typesetting; outlines
// are rendered with golang.org/x/image/font/opentype. Glyph images are white
// with coverage in alpha.
type FontSource struct {
	// Size is the font size in pixels per em.
	Size float64

	// First and Last bound the rune range, inclusive. Both zero selects
	// DefaultFirstRune..DefaultLastRune.
	First, Last rune
}

// Validate checks the font source configuration.
func (s *FontSource) Validate() error {
	if s.Size < 4 {
		return &ConfigError{Field: "Size", Reason: "must be at least 4"}
	}
	if s.Size > 1024 {
		return &ConfigError{Field: "Size", Reason: "must be at most 1024"}
	}
	if s.Last < s.First {
		return &ConfigError{Field: "Last", Reason: "must not be below First"}
	}
	return nil
}

func (s *FontSource) runeRange() (rune, rune) {
	if s.First == 0 && s.Last == 0 {
		return DefaultFirstRune, DefaultLastRune
	}
	return s.First, s.Last
}

// Glyphs rasterizes every rune in range that the font maps to a glyph.
//
// It returns the images of glyphs with visible pixels, ready for a Packer,
// and the advance of every mapped rune keyed by rune, including blank ones
// such as space.
func (s *FontSource) Glyphs(data []byte) ([]NamedImage, map[int]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("atlas: parse font: %w", err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("atlas: parse font outlines: %w", err)
	}
	otFace, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    s.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("atlas: create face: %w", err)
	}
	defer func() {
		_ = otFace.Close()
	}()

	scale := s.Size / float64(face.Upem())
	first, last := s.runeRange()

	var images []NamedImage
	advances := make(map[int]float64)
	for r := first; r <= last; r++ {
		gid, ok := face.NominalGlyph(r)
		if !ok || gid == 0 {
			continue
		}
		advances[int(r)] = float64(face.HorizontalAdvance(gid)) * scale

		img, err := rasterize(otFace, r)
		if err != nil {
			return nil, nil, fmt.Errorf("atlas: rasterize %U: %w", r, err)
		}
		if img == nil {
			continue
		}
		images = append(images, NamedImage{Name: fmt.Sprintf("U+%04X", r), ID: int(r), Image: img})
	}
	if len(advances) == 0 {
		return nil, nil, fmt.Errorf("%w: %U..%U", ErrNoGlyphs, first, last)
	}
	return images, advances, nil
}

// Build rasterizes the font, packs the glyphs into a size x size atlas with
// packer, and returns the atlas with its glyph file. Runes without visible
// pixels are recorded with an empty rect and their advance.
func (s *FontSource) Build(data []byte, name string, size int, packer Packer) (*pixbuf.Buffer, *GlyphFile, error) {
	images, advances, err := s.Glyphs(data)
	if err != nil {
		return nil, nil, err
	}
	atlasBuf, placements, err := packer.Pack(images, size)
	if err != nil {
		return nil, nil, err
	}

	rects := make(map[int]Rect, len(placements))
	for _, p := range placements {
		rects[p.ID] = p.Rect
	}
	first, last := s.runeRange()
	gf := &GlyphFile{Name: name, Width: atlasBuf.Width(), Height: atlasBuf.Height()}
	for r := first; r <= last; r++ {
		adv, ok := advances[int(r)]
		if !ok {
			continue
		}
		gf.Glyphs = append(gf.Glyphs, GlyphEntry{ID: int(r), Rect: rects[int(r)], Advance: adv})
	}
	return atlasBuf, gf, nil
}

// rasterize renders r to a tightly cropped RGBA8 buffer, or nil when the
// glyph has no visible pixels.
func rasterize(face font.Face, r rune) (*pixbuf.Buffer, error) {
	bounds, _, ok := face.GlyphBounds(r)
	if !ok {
		return nil, nil
	}
	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	if maxX <= minX || maxY <= minY {
		return nil, nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, maxX-minX, maxY-minY))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(-minX, -minY),
	}
	d.DrawString(string(r))

	buf, err := pixbuf.New(mask.Rect.Dx(), mask.Rect.Dy(), pixbuf.FormatRGBA8)
	if err != nil {
		return nil, err
	}
	for y := range buf.Height() {
		row := buf.Row(y)
		src := mask.Pix[y*mask.Stride:]
		for x := range buf.Width() {
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = 255, 255, 255, src[x]
		}
	}
	return buf, nil
}

package atlas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// GlyphFormat selects the on-disk encoding of a glyph file.
type GlyphFormat uint8

const (
	// GlyphTOML is the native schema encoded as TOML.
	GlyphTOML GlyphFormat = iota

	// GlyphYAML is the native schema encoded as YAML.
	GlyphYAML

	// GlyphJSON is the msdf-atlas-gen JSON layout.
	GlyphJSON
)

// String returns the conventional file extension without the dot.
func (f GlyphFormat) String() string {
	switch f {
	case GlyphTOML:
		return "toml"
	case GlyphYAML:
		return "yaml"
	case GlyphJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseGlyphFormat maps "toml", "yaml", "yml" or "json" to a format.
func ParseGlyphFormat(name string) (GlyphFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "toml":
		return GlyphTOML, nil
	case "yaml", "yml":
		return GlyphYAML, nil
	case "json":
		return GlyphJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGlyphFormat, name)
	}
}

// GlyphFormatForPath returns the format implied by the extension of path.
func GlyphFormatForPath(path string) (GlyphFormat, error) {
	return ParseGlyphFormat(filepath.Ext(path))
}

// GlyphFile is the persisted form of an atlas: its image size and the
// glyph rects inside it.
type GlyphFile struct {
	Name   string
	Width  int
	Height int
	Glyphs []GlyphEntry

	// RequireAdvance drops glyphs without a positive advance from the
	// registry. It is not persisted; decoding msdf-atlas-gen JSON sets it.
	RequireAdvance bool
}

// Source wraps the file's glyphs as a registry source.
func (f *GlyphFile) Source() Source {
	return Source{Name: f.Name, RequireAdvance: f.RequireAdvance, Glyphs: f.Glyphs}
}

// native schema shared by TOML and YAML.
type nativeFile struct {
	Name   string        `toml:"name" yaml:"name"`
	Atlas  nativeAtlas   `toml:"atlas" yaml:"atlas"`
	Glyphs []nativeGlyph `toml:"glyphs" yaml:"glyphs"`
}

type nativeAtlas struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

type nativeGlyph struct {
	ID      int     `toml:"id" yaml:"id"`
	X       int     `toml:"x" yaml:"x"`
	Y       int     `toml:"y" yaml:"y"`
	W       int     `toml:"w" yaml:"w"`
	H       int     `toml:"h" yaml:"h"`
	Advance float64 `toml:"advance,omitempty" yaml:"advance,omitempty"`
}

// msdf-atlas-gen layout.
type msdfFile struct {
	Name   string      `json:"name,omitempty"`
	Atlas  msdfAtlas   `json:"atlas"`
	Glyphs []msdfGlyph `json:"glyphs"`
}

type msdfAtlas struct {
	Type    string `json:"type,omitempty"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	YOrigin string `json:"yOrigin,omitempty"`
}

type msdfGlyph struct {
	Unicode     int         `json:"unicode"`
	Advance     float64     `json:"advance"`
	AtlasBounds *msdfBounds `json:"atlasBounds,omitempty"`
}

type msdfBounds struct {
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
}

// ReadGlyphFile reads a glyph file, choosing the decoder from its extension.
// A file without a name is named after its base name.
func ReadGlyphFile(path string) (*GlyphFile, error) {
	format, err := GlyphFormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("atlas: read glyph file: %w", err)
	}
	f, err := DecodeGlyphFile(data, format)
	if err != nil {
		return nil, fmt.Errorf("atlas: read %s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// WriteGlyphFile writes f to path in the format implied by its extension.
func WriteGlyphFile(path string, f *GlyphFile) error {
	format, err := GlyphFormatForPath(path)
	if err != nil {
		return err
	}
	data, err := EncodeGlyphFile(f, format)
	if err != nil {
		return fmt.Errorf("atlas: write %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("atlas: write glyph file: %w", err)
	}
	return nil
}

// DecodeGlyphFile parses glyph file content in the given format.
func DecodeGlyphFile(data []byte, format GlyphFormat) (*GlyphFile, error) {
	switch format {
	case GlyphTOML, GlyphYAML:
		var nf nativeFile
		var err error
		if format == GlyphTOML {
			err = toml.Unmarshal(data, &nf)
		} else {
			err = yaml.Unmarshal(data, &nf)
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", format, err)
		}
		return nf.glyphFile(), nil
	case GlyphJSON:
		var mf msdfFile
		if err := json.Unmarshal(data, &mf); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return mf.glyphFile(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownGlyphFormat, format)
	}
}

// EncodeGlyphFile serializes f in the given format. JSON output uses a
// top-left origin.
func EncodeGlyphFile(f *GlyphFile, format GlyphFormat) ([]byte, error) {
	switch format {
	case GlyphTOML:
		return toml.Marshal(newNativeFile(f))
	case GlyphYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(newNativeFile(f)); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case GlyphJSON:
		data, err := json.MarshalIndent(newMSDFFile(f), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownGlyphFormat, format)
	}
}

func newNativeFile(f *GlyphFile) nativeFile {
	nf := nativeFile{
		Name:   f.Name,
		Atlas:  nativeAtlas{Width: f.Width, Height: f.Height},
		Glyphs: make([]nativeGlyph, 0, len(f.Glyphs)),
	}
	for _, g := range f.Glyphs {
		nf.Glyphs = append(nf.Glyphs, nativeGlyph{
			ID: g.ID, X: g.Rect.X, Y: g.Rect.Y, W: g.Rect.W, H: g.Rect.H, Advance: g.Advance,
		})
	}
	return nf
}

func (nf *nativeFile) glyphFile() *GlyphFile {
	f := &GlyphFile{
		Name:   nf.Name,
		Width:  nf.Atlas.Width,
		Height: nf.Atlas.Height,
		Glyphs: make([]GlyphEntry, 0, len(nf.Glyphs)),
	}
	for _, g := range nf.Glyphs {
		f.Glyphs = append(f.Glyphs, GlyphEntry{
			ID:      g.ID,
			Rect:    Rect{X: g.X, Y: g.Y, W: g.W, H: g.H},
			Advance: g.Advance,
		})
	}
	return f
}

func newMSDFFile(f *GlyphFile) msdfFile {
	mf := msdfFile{
		Name:   f.Name,
		Atlas:  msdfAtlas{Type: "hardmask", Width: f.Width, Height: f.Height, YOrigin: "top"},
		Glyphs: make([]msdfGlyph, 0, len(f.Glyphs)),
	}
	for _, g := range f.Glyphs {
		mg := msdfGlyph{Unicode: g.ID, Advance: g.Advance}
		if !g.Rect.Empty() {
			mg.AtlasBounds = &msdfBounds{
				Left:   float64(g.Rect.X),
				Top:    float64(g.Rect.Y),
				Right:  float64(g.Rect.X + g.Rect.W),
				Bottom: float64(g.Rect.Y + g.Rect.H),
			}
		}
		mf.Glyphs = append(mf.Glyphs, mg)
	}
	return mf
}

// glyphFile converts atlas bounds to pixel rects. Fractional bounds are
// widened to whole pixels. With a bottom origin (the msdf-atlas-gen
// default) y is flipped against the atlas height.
func (mf *msdfFile) glyphFile() *GlyphFile {
	f := &GlyphFile{
		Name:           mf.Name,
		Width:          mf.Atlas.Width,
		Height:         mf.Atlas.Height,
		Glyphs:         make([]GlyphEntry, 0, len(mf.Glyphs)),
		RequireAdvance: true,
	}
	topOrigin := strings.EqualFold(mf.Atlas.YOrigin, "top")
	for _, g := range mf.Glyphs {
		e := GlyphEntry{ID: g.Unicode, Advance: g.Advance}
		if b := g.AtlasBounds; b != nil {
			x0 := int(math.Floor(b.Left))
			x1 := int(math.Ceil(b.Right))
			var y0, y1 int
			if topOrigin {
				y0 = int(math.Floor(b.Top))
				y1 = int(math.Ceil(b.Bottom))
			} else {
				y0 = mf.Atlas.Height - int(math.Ceil(b.Top))
				y1 = mf.Atlas.Height - int(math.Floor(b.Bottom))
			}
			e.Rect = Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
		}
		f.Glyphs = append(f.Glyphs, e)
	}
	return f
}

package atlas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGlyphFile() *GlyphFile {
	return &GlyphFile{
		Name:   "mono",
		Width:  64,
		Height: 32,
		Glyphs: []GlyphEntry{
			{ID: 32, Advance: 5},
			{ID: 65, Rect: Rect{X: 0, Y: 0, W: 10, H: 12}, Advance: 11.5},
			{ID: 66, Rect: Rect{X: 12, Y: 4, W: 9, H: 12}, Advance: 10},
		},
	}
}

func TestGlyphFileRoundTrip(t *testing.T) {
	for _, ext := range []string{"toml", "yaml", "yml", "json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "glyphs."+ext)
			want := sampleGlyphFile()
			require.NoError(t, WriteGlyphFile(path, want))

			got, err := ReadGlyphFile(path)
			require.NoError(t, err)
			want.RequireAdvance = ext == "json"
			assert.Equal(t, want, got)
		})
	}
}

func TestReadMSDFJSONBottomOrigin(t *testing.T) {
	data := []byte(`{
  "atlas": {"type": "msdf", "width": 64, "height": 32, "yOrigin": "bottom"},
  "glyphs": [
    {"unicode": 32, "advance": 0.25},
    {"unicode": 65, "advance": 0.6,
     "atlasBounds": {"left": 0.5, "bottom": 10.5, "right": 10.5, "top": 22.5}}
  ]
}`)
	f, err := DecodeGlyphFile(data, GlyphJSON)
	require.NoError(t, err)
	require.Len(t, f.Glyphs, 2)

	assert.True(t, f.Glyphs[0].Rect.Empty())
	// x: [0, 11); y: top 22.5 -> 32-23 = 9, bottom 10.5 -> 32-10 = 22
	assert.Equal(t, Rect{X: 0, Y: 9, W: 11, H: 13}, f.Glyphs[1].Rect)
	assert.InDelta(t, 0.6, f.Glyphs[1].Advance, 1e-9)
}

func TestReadMSDFJSONDefaultsToBottomOrigin(t *testing.T) {
	data := []byte(`{"atlas":{"width":16,"height":16},"glyphs":[
		{"unicode":1,"advance":1,"atlasBounds":{"left":0,"bottom":0,"right":4,"top":4}}]}`)
	f, err := DecodeGlyphFile(data, GlyphJSON)
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 0, Y: 12, W: 4, H: 4}, f.Glyphs[0].Rect)
}

func TestGlyphFileSourceRequireAdvance(t *testing.T) {
	data := []byte(`{"atlas":{"width":16,"height":16,"yOrigin":"top"},"glyphs":[
		{"unicode":1,"advance":0,"atlasBounds":{"left":0,"bottom":4,"right":4,"top":0}},
		{"unicode":2,"advance":1,"atlasBounds":{"left":4,"bottom":4,"right":8,"top":0}}]}`)
	f, err := DecodeGlyphFile(data, GlyphJSON)
	require.NoError(t, err)
	require.True(t, f.RequireAdvance)

	reg := BuildRegistry(f.Source())
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Rect(1)
	assert.False(t, ok)

	native, err := DecodeGlyphFile([]byte(`
[atlas]
width = 16
height = 16

[[glyphs]]
id = 1
x = 0
y = 0
w = 4
h = 4
`), GlyphTOML)
	require.NoError(t, err)
	assert.False(t, native.RequireAdvance)
	assert.Equal(t, 1, BuildRegistry(native.Source()).Len())
}

func TestReadGlyphFileDefaultsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fontname.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[atlas]
width = 8
height = 8

[[glyphs]]
id = 1
x = 0
y = 0
w = 2
h = 2
`), 0o644))

	f, err := ReadGlyphFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fontname", f.Name)
	assert.Equal(t, []GlyphEntry{{ID: 1, Rect: Rect{W: 2, H: 2}}}, f.Glyphs)
}

func TestGlyphFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadGlyphFile(filepath.Join(dir, "glyphs.txt"))
	assert.ErrorIs(t, err, ErrUnknownGlyphFormat)

	err = WriteGlyphFile(filepath.Join(dir, "glyphs.ini"), sampleGlyphFile())
	assert.ErrorIs(t, err, ErrUnknownGlyphFormat)

	_, err = ReadGlyphFile(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = DecodeGlyphFile([]byte("{not json"), GlyphJSON)
	assert.Error(t, err)
}

func TestParseGlyphFormat(t *testing.T) {
	tests := []struct {
		in   string
		want GlyphFormat
	}{
		{"toml", GlyphTOML},
		{".YAML", GlyphYAML},
		{"yml", GlyphYAML},
		{"json", GlyphJSON},
	}
	for _, tt := range tests {
		got, err := ParseGlyphFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseGlyphFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownGlyphFormat)
}

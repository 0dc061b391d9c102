package atlas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestFontSourceGlyphs(t *testing.T) {
	fs := &FontSource{Size: 16, First: 'A', Last: 'C'}
	images, advances, err := fs.Glyphs(goregular.TTF)
	require.NoError(t, err)

	require.Len(t, images, 3)
	for i, im := range images {
		assert.Equal(t, 'A'+i, im.ID)
		assert.Positive(t, im.Image.Width())
		assert.Positive(t, im.Image.Height())
		assert.LessOrEqual(t, im.Image.Height(), 20)
		assert.Positive(t, advances[im.ID])
	}
}

func TestFontSourceBlankGlyphKeepsAdvance(t *testing.T) {
	fs := &FontSource{Size: 16, First: ' ', Last: '!'}
	images, advances, err := fs.Glyphs(goregular.TTF)
	require.NoError(t, err)

	require.Len(t, images, 1)
	assert.Equal(t, int('!'), images[0].ID)
	assert.Positive(t, advances[' '])
}

func TestFontSourceBuild(t *testing.T) {
	fs := &FontSource{Size: 16}
	atlasBuf, gf, err := fs.Build(goregular.TTF, "goregular", 256, &ShelfPacker{Padding: 1})
	require.NoError(t, err)

	assert.Equal(t, "goregular", gf.Name)
	assert.Equal(t, 256, gf.Width)
	assert.Equal(t, atlasBuf.Height(), gf.Height)

	reg := BuildRegistry(Source{Name: gf.Name, RequireAdvance: true, Glyphs: gf.Glyphs})
	assert.Greater(t, reg.Len(), 90)

	r, ok := reg.Rect('A')
	require.True(t, ok)
	assert.True(t, r.Inside(256, 256))
	_, ok = reg.Rect(' ')
	assert.False(t, ok)

	// glyph coverage lands in alpha
	var covered bool
	for y := r.Y; y < r.Y+r.H && !covered; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if atlasBuf.RGBA(x, y).A > 128 {
				covered = true
				break
			}
		}
	}
	assert.True(t, covered)
}

func TestFontSourceErrors(t *testing.T) {
	_, _, err := (&FontSource{Size: 16}).Glyphs([]byte("not a font"))
	assert.Error(t, err)

	var ce *ConfigError
	_, _, err = (&FontSource{Size: 1}).Glyphs(goregular.TTF)
	assert.True(t, errors.As(err, &ce))

	_, _, err = (&FontSource{Size: 12, First: 'z', Last: 'a'}).Glyphs(goregular.TTF)
	assert.True(t, errors.As(err, &ce))

	_, _, err = (&FontSource{Size: 12, First: 0x4E00, Last: 0x4E0F}).Glyphs(goregular.TTF)
	assert.ErrorIs(t, err, ErrNoGlyphs)

	_, _, err = (&FontSource{Size: 64}).Build(goregular.TTF, "big", 32, &ShelfPacker{})
	assert.ErrorIs(t, err, ErrAtlasFull)
}

package pipeline

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/imgtool"
	"github.com/gogpu/imgtool/atlas"
	"github.com/gogpu/imgtool/codec"
	"github.com/gogpu/imgtool/internal/config"
	"github.com/gogpu/imgtool/pixbuf"
)

func newTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx, err := NewContext(config.Default(), logger)
	require.NoError(t, err)
	t.Cleanup(ctx.Close)
	return ctx, &logs
}

func writePNG(t *testing.T, path string, w, h int, f pixbuf.Format, c pixbuf.RGBA) {
	t.Helper()
	b, err := pixbuf.New(w, h, f)
	require.NoError(t, err)
	b.Fill(c)
	_, err = (&codec.FileCodec{}).Encode(b, path)
	require.NoError(t, err)
}

func TestNewContextRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Resampler = "sinc"
	_, err := NewContext(cfg, nil)
	var ce *config.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestProcessNoInput(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, err := Process(ctx, Job{})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = Process(ctx, Job{Input: "model.OBJ"})
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}

func TestProcessPasteFilterWrite(t *testing.T) {
	ctx, logs := newTestContext(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	patch := filepath.Join(dir, "patch.png")
	out := filepath.Join(dir, "out.png")

	writePNG(t, in, 4, 4, pixbuf.FormatRGBA8, pixbuf.RGBA{R: 200, G: 10, B: 10, A: 255})
	writePNG(t, patch, 2, 2, pixbuf.FormatRGBA8, pixbuf.RGBA{A: 255})

	_, err := Process(ctx, Job{
		Input:   in,
		Output:  out,
		Paste:   patch,
		PasteAt: imgtool.At(1, 1),
		Filter:  imgtool.FilterDarkToAlpha,
	})
	require.NoError(t, err)

	got, err := codec.NewLoader(nil).Load(out)
	require.NoError(t, err)
	assert.Equal(t, uint8(200), got.RGBA(0, 0).A)
	assert.Equal(t, uint8(0), got.RGBA(1, 1).A)
	assert.Equal(t, uint8(0), got.RGBA(2, 2).A)
	assert.Equal(t, uint8(200), got.RGBA(3, 3).A)

	assert.Contains(t, logs.String(), "input dim")
	assert.Contains(t, logs.String(), "msg=write")
}

func TestProcessScaleAndConvert(t *testing.T) {
	ctx, _ := newTestContext(t)
	in := filepath.Join(t.TempDir(), "gray.png")
	writePNG(t, in, 3, 2, pixbuf.FormatGray8, pixbuf.RGBA{R: 90, G: 90, B: 90, A: 255})

	got, err := Process(ctx, Job{Input: in, Scale: 2, Filter: imgtool.FilterDarkToAlpha})
	require.NoError(t, err)
	assert.Equal(t, 6, got.Width())
	assert.Equal(t, 4, got.Height())
	assert.True(t, got.Format().AlphaLast())
	assert.InDelta(t, 90, int(got.RGBA(2, 2).A), 2)
}

func TestProcessMissingInput(t *testing.T) {
	ctx, _ := newTestContext(t)
	_, err := Process(ctx, Job{Input: filepath.Join(t.TempDir(), "missing.png")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMakeSplitFilterAtlas(t *testing.T) {
	ctx, logs := newTestContext(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "glyphs")
	require.NoError(t, os.Mkdir(src, 0o755))

	writePNG(t, filepath.Join(src, "65.png"), 10, 12, pixbuf.FormatRGBA8, pixbuf.RGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(src, "66.png"), 8, 12, pixbuf.FormatRGBA8, pixbuf.RGBA{G: 255, A: 255})
	writePNG(t, filepath.Join(src, "star.png"), 5, 5, pixbuf.FormatRGBA8, pixbuf.RGBA{B: 255, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip"), 0o644))

	prefix := filepath.Join(dir, "out", "sheet")
	res, err := MakeAtlas(ctx, src, 64, prefix)
	require.NoError(t, err)
	assert.Equal(t, prefix+".png", res.Image)
	assert.Equal(t, prefix+".toml", res.Glyphs)
	assert.Equal(t, 3, res.Count)

	gf, err := atlas.ReadGlyphFile(res.Glyphs)
	require.NoError(t, err)
	assert.Equal(t, "sheet", gf.Name)
	ids := map[int]atlas.Rect{}
	for _, g := range gf.Glyphs {
		ids[g.ID] = g.Rect
	}
	assert.Equal(t, 10, ids[65].W)
	assert.Equal(t, 8, ids[66].W)
	assert.Equal(t, 5, ids[67].W)

	paths, err := SplitAtlas(ctx, res.Image, nil, "")
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "out", "sheet", "65.png"), paths[0])

	loader := codec.NewLoader(nil)
	for _, p := range paths {
		b, err := loader.Load(p)
		require.NoError(t, err)
		id := filepath.Base(p)
		switch id {
		case "65.png":
			assert.Equal(t, pixbuf.RGBA{R: 255, A: 255}, b.RGBA(0, 0))
		case "67.png":
			assert.Equal(t, 5, b.Width())
		}
	}

	require.NoError(t, FilterAtlas(ctx, res.Glyphs))
	assert.Contains(t, logs.String(), "filtered")
}

func TestFilterAtlasCanonicalizes(t *testing.T) {
	ctx, _ := newTestContext(t)
	path := filepath.Join(t.TempDir(), "dup.yaml")
	require.NoError(t, atlas.WriteGlyphFile(path, &atlas.GlyphFile{
		Name: "dup", Width: 32, Height: 32,
		Glyphs: []atlas.GlyphEntry{
			{ID: 5, Rect: atlas.Rect{W: 8, H: 8}, Advance: 4},
			{ID: 2, Rect: atlas.Rect{W: 8, H: 8}, Advance: 3},
			{ID: 7, Rect: atlas.Rect{X: 8, W: 0, H: 8}},
		},
	}))

	require.NoError(t, FilterAtlas(ctx, path))

	gf, err := atlas.ReadGlyphFile(path)
	require.NoError(t, err)
	assert.Equal(t, []atlas.GlyphEntry{{ID: 2, Rect: atlas.Rect{W: 8, H: 8}, Advance: 3}}, gf.Glyphs)
	assert.Equal(t, 32, gf.Width)
}

func TestSplitAtlasEmptyRegistry(t *testing.T) {
	ctx, logs := newTestContext(t)
	dir := t.TempDir()
	glyphs := filepath.Join(dir, "empty.json")
	require.NoError(t, atlas.WriteGlyphFile(glyphs, &atlas.GlyphFile{Width: 16, Height: 16}))

	paths, err := SplitAtlas(ctx, filepath.Join(dir, "missing.png"), []string{glyphs}, "")
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestSplitAtlasNoGlyphFile(t *testing.T) {
	ctx, _ := newTestContext(t)
	_, err := SplitAtlas(ctx, filepath.Join(t.TempDir(), "lonely.png"), nil, "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMakeAtlasSequential(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Close()
	ctx.Pool = nil

	src := t.TempDir()
	writePNG(t, filepath.Join(src, "b.png"), 4, 4, pixbuf.FormatRGBA8, pixbuf.RGBA{A: 255})
	writePNG(t, filepath.Join(src, "a.png"), 6, 4, pixbuf.FormatRGBA8, pixbuf.RGBA{A: 255})

	res, err := MakeAtlas(ctx, src, 32, filepath.Join(t.TempDir(), "seq"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	gf, err := atlas.ReadGlyphFile(res.Glyphs)
	require.NoError(t, err)
	widths := map[int]int{}
	for _, g := range gf.Glyphs {
		widths[g.ID] = g.Rect.W
	}
	assert.Equal(t, map[int]int{0: 6, 1: 4}, widths)
}

func TestMakeAtlasBadImage(t *testing.T) {
	ctx, _ := newTestContext(t)
	src := t.TempDir()
	writePNG(t, filepath.Join(src, "ok.png"), 4, 4, pixbuf.FormatRGBA8, pixbuf.RGBA{A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.png"), []byte("not a png"), 0o644))

	_, err := MakeAtlas(ctx, src, 32, filepath.Join(t.TempDir(), "bad"))
	assert.Error(t, err)
}

func TestMakeAtlasNoImages(t *testing.T) {
	ctx, _ := newTestContext(t)
	_, err := MakeAtlas(ctx, t.TempDir(), 64, "")
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestFontAtlas(t *testing.T) {
	ctx, _ := newTestContext(t)
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "goregular.ttf")
	require.NoError(t, os.WriteFile(fontPath, goregular.TTF, 0o644))

	res, err := FontAtlas(ctx, fontPath, 16, 256, filepath.Join(dir, "font"))
	require.NoError(t, err)

	_, err = os.Stat(res.Image)
	require.NoError(t, err)
	gf, err := atlas.ReadGlyphFile(res.Glyphs)
	require.NoError(t, err)
	assert.Equal(t, "font", gf.Name)
	assert.Equal(t, res.Count, len(gf.Glyphs))

	paths, err := SplitAtlas(ctx, res.Image, []string{res.Glyphs}, filepath.Join(dir, "split"))
	require.NoError(t, err)
	assert.NotEmpty(t, paths)
	_, err = os.Stat(filepath.Join(dir, "split", "65.png"))
	assert.NoError(t, err)
}

package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/gogpu/imgtool/atlas"
	"github.com/gogpu/imgtool/pixbuf"
)

// DefaultAtlasName is the output prefix of MakeAtlas when none is given.
const DefaultAtlasName = "png_atlas"

// AtlasResult names the files written by MakeAtlas and FontAtlas.
type AtlasResult struct {
	Image  string
	Glyphs string
	Count  int
}

// MakeAtlas packs every PNG file in dir into a size x size atlas and writes
// <prefix>.png with a glyph file next to it. Files are ordered by SortNames;
// a file named <n>.png keeps id n.
func MakeAtlas(ctx *Context, dir string, size int, prefix string) (AtlasResult, error) {
	dir, err := homedir.Expand(dir)
	if err != nil {
		return AtlasResult{}, fmt.Errorf("pipeline: make atlas: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return AtlasResult{}, fmt.Errorf("pipeline: make atlas: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return AtlasResult{}, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	atlas.SortNames(names)
	ids := atlas.AssignIDs(names)

	images := make([]atlas.NamedImage, len(names))
	load := func(i int) error {
		b, err := ctx.Loader.Load(filepath.Join(dir, names[i]))
		if err != nil {
			return err
		}
		images[i] = atlas.NamedImage{Name: names[i], ID: ids[i], Image: b}
		return nil
	}
	if ctx.Pool != nil {
		err = ctx.Pool.Map(len(names), load)
	} else {
		for i := range names {
			if err = load(i); err != nil {
				break
			}
		}
	}
	if err != nil {
		return AtlasResult{}, fmt.Errorf("pipeline: make atlas: %w", err)
	}

	buf, places, err := ctx.Packer.Pack(images, size)
	if err != nil {
		return AtlasResult{}, fmt.Errorf("pipeline: make atlas: %w", err)
	}

	prefix = atlasPrefix(prefix, DefaultAtlasName)
	gf := &atlas.GlyphFile{
		Name:   filepath.Base(prefix),
		Width:  buf.Width(),
		Height: buf.Height(),
		Glyphs: make([]atlas.GlyphEntry, 0, len(places)),
	}
	for _, p := range places {
		gf.Glyphs = append(gf.Glyphs, atlas.GlyphEntry{ID: p.ID, Rect: p.Rect, Advance: float64(p.Rect.W)})
	}

	res, err := writeAtlas(ctx, prefix, buf, gf)
	if err != nil {
		return res, err
	}
	ctx.log().Info("atlas", "images", len(images), "size", size, "image", res.Image, "glyphs", res.Glyphs)
	return res, nil
}

// FontAtlas rasterizes runes 0-255 of the font at fontPath at px pixels per
// em into a size x size atlas and writes <prefix>.png with its glyph file.
// An empty prefix uses the font file name.
func FontAtlas(ctx *Context, fontPath string, px float64, size int, prefix string) (AtlasResult, error) {
	path, err := homedir.Expand(fontPath)
	if err != nil {
		return AtlasResult{}, fmt.Errorf("pipeline: font atlas: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return AtlasResult{}, fmt.Errorf("pipeline: font atlas: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	prefix = atlasPrefix(prefix, stem)

	src := &atlas.FontSource{Size: px}
	buf, gf, err := src.Build(data, filepath.Base(prefix), size, ctx.Packer)
	if err != nil {
		return AtlasResult{}, fmt.Errorf("pipeline: font atlas %s: %w", fontPath, err)
	}

	res, err := writeAtlas(ctx, prefix, buf, gf)
	if err != nil {
		return res, err
	}
	ctx.log().Info("font atlas", "font", fontPath, "px", px, "glyphs", res.Count, "image", res.Image)
	return res, nil
}

// SplitAtlas cuts the atlas image at atlasPath into one PNG per glyph,
// using the canonical registry built from glyphPaths in priority order.
// Without glyph paths the glyph file next to the atlas is used. Files go to
// outDir, or a directory named after the atlas.
//
// An empty registry is logged and skipped.
func SplitAtlas(ctx *Context, atlasPath string, glyphPaths []string, outDir string) ([]string, error) {
	atlasPath, err := homedir.Expand(atlasPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: split atlas: %w", err)
	}
	if len(glyphPaths) == 0 {
		sibling, err := findGlyphFile(atlasPath)
		if err != nil {
			return nil, err
		}
		glyphPaths = []string{sibling}
	}

	sources := make([]atlas.Source, 0, len(glyphPaths))
	for _, p := range glyphPaths {
		gf, err := atlas.ReadGlyphFile(p)
		if err != nil {
			return nil, fmt.Errorf("pipeline: split atlas: %w", err)
		}
		sources = append(sources, gf.Source())
	}

	reg := atlas.BuildRegistry(sources...)
	if reg.Len() == 0 {
		ctx.log().Warn("empty glyph registry, nothing to split", "atlas", atlasPath, "glyphs", glyphPaths)
		return nil, nil
	}

	buf, err := ctx.Loader.Load(atlasPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: split atlas: %w", err)
	}
	if outDir == "" {
		outDir = strings.TrimSuffix(atlasPath, filepath.Ext(atlasPath))
	}
	paths, err := ctx.Exporter.Export(buf, reg.Entries(), outDir)
	if err != nil {
		return paths, fmt.Errorf("pipeline: split atlas: %w", err)
	}
	ctx.log().Info("split", "atlas", atlasPath, "glyphs", len(paths), "dir", outDir)
	return paths, nil
}

// FilterAtlas rewrites the glyph file at path with its canonical registry:
// duplicate rects collapse to one id and empty rects are dropped.
func FilterAtlas(ctx *Context, path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("pipeline: filter atlas: %w", err)
	}
	gf, err := atlas.ReadGlyphFile(path)
	if err != nil {
		return fmt.Errorf("pipeline: filter atlas: %w", err)
	}

	src := gf.Source()
	reg := atlas.BuildRegistry(src)
	before := len(gf.Glyphs)
	gf.Glyphs = reg.Source(gf.Name, src).Glyphs

	if err := atlas.WriteGlyphFile(path, gf); err != nil {
		return fmt.Errorf("pipeline: filter atlas: %w", err)
	}
	ctx.log().Info("filtered", "path", path, "before", before, "after", len(gf.Glyphs))
	return nil
}

// writeAtlas encodes the atlas image as <prefix>.png and its glyph file
// as <prefix>.<glyph format>.
func writeAtlas(ctx *Context, prefix string, buf *pixbuf.Buffer, gf *atlas.GlyphFile) (AtlasResult, error) {
	res := AtlasResult{
		Image:  prefix + ".png",
		Glyphs: prefix + "." + ctx.GlyphFormat.String(),
		Count:  len(gf.Glyphs),
	}
	if dir := filepath.Dir(prefix); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("pipeline: write atlas: %w", err)
		}
	}
	n, err := ctx.Codec.Encode(buf, res.Image)
	if err != nil {
		return res, fmt.Errorf("pipeline: write atlas: %w", err)
	}
	ctx.log().Info("write", "path", res.Image, "bytes", n)
	if err := atlas.WriteGlyphFile(res.Glyphs, gf); err != nil {
		return res, fmt.Errorf("pipeline: write atlas: %w", err)
	}
	ctx.log().Info("write", "path", res.Glyphs, "glyphs", res.Count)
	return res, nil
}

func atlasPrefix(prefix, fallback string) string {
	if prefix == "" {
		return fallback
	}
	if p, err := homedir.Expand(prefix); err == nil {
		return p
	}
	return prefix
}

// findGlyphFile looks for <atlas stem>.{toml,yaml,yml,json} next to the atlas.
func findGlyphFile(atlasPath string) (string, error) {
	stem := strings.TrimSuffix(atlasPath, filepath.Ext(atlasPath))
	for _, ext := range []string{".toml", ".yaml", ".yml", ".json"} {
		p := stem + ext
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("pipeline: split atlas: %w", err)
		}
	}
	return "", fmt.Errorf("pipeline: split atlas: no glyph file next to %s: %w", atlasPath, fs.ErrNotExist)
}

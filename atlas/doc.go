// Package atlas canonicalizes glyph atlas metadata and moves glyph images in
// and out of atlas textures.
//
// # Registry
//
// Atlas metadata often lists the same rectangle under several glyph ids, or
// lists glyphs with empty rectangles. [BuildRegistry] folds one or more
// [Source] values into a [Registry] where every rect belongs to exactly one
// id:
//
//	reg := atlas.BuildRegistry(fromFont, fromOverrides)
//	for _, e := range reg.Entries() {
//	    fmt.Println(e.ID, e.Rect)
//	}
//
// # Glyph files
//
// [ReadGlyphFile] and [WriteGlyphFile] persist a [GlyphFile] as TOML, YAML
// or msdf-atlas-gen JSON, chosen by file extension.
//
// # Packing and export
//
// A [Packer] places glyph images into a square atlas; [ShelfPacker] is the
// provided implementation. An [Exporter] cuts an atlas back into one file per
// registry entry; [PNGExporter] writes <id>.png files through an [Encoder].
// [FontSource] produces glyph images from a TrueType or OpenType font.
package atlas

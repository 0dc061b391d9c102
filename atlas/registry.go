package atlas

import (
	"cmp"
	"maps"
	"slices"
)

// GlyphEntry is one glyph record read from atlas metadata.
type GlyphEntry struct {
	ID      int
	Rect    Rect
	Advance float64
}

// Source is a named list of glyph entries. Sources passed to BuildRegistry
// are folded in order; later sources take priority on rect collisions.
type Source struct {
	Name string

	// RequireAdvance drops entries whose advance is not positive.
	RequireAdvance bool

	Glyphs []GlyphEntry
}

func (s *Source) eligible(g GlyphEntry) bool {
	if g.Rect.Empty() {
		return false
	}
	return !s.RequireAdvance || g.Advance > 0
}

// Entry is one canonical id to rect pair.
type Entry struct {
	ID   int
	Rect Rect
}

// Registry is a bijective mapping between glyph ids and atlas rects.
// It is immutable once built.
type Registry struct {
	entries []Entry
	byID    map[int]Rect
	byRect  map[Rect]int
}

// BuildRegistry folds sources into a registry in which every distinct rect
// belongs to exactly one id and every id to exactly one rect.
//
// Within a source, eligible entries are visited from the highest id to the
// lowest and each assigns its rect to its id, so the lowest id sharing a rect
// wins. Across sources the later source wins regardless of id.
//
// The rect to id map is then inverted. Rects are visited in ascending
// (X, Y, W, H) order; when one id owns several rects the last one visited
// is kept. Ids with no eligible rect are absent. Zero sources yield an empty
// registry.
func BuildRegistry(sources ...Source) *Registry {
	mapping := make(map[Rect]int)
	for i := range sources {
		src := &sources[i]
		eligible := make([]GlyphEntry, 0, len(src.Glyphs))
		for _, g := range src.Glyphs {
			if src.eligible(g) {
				eligible = append(eligible, g)
			}
		}
		slices.SortStableFunc(eligible, func(a, b GlyphEntry) int {
			return cmp.Compare(b.ID, a.ID)
		})
		for _, g := range eligible {
			mapping[g.Rect] = g.ID
		}
	}

	rects := slices.SortedFunc(maps.Keys(mapping), Rect.Compare)
	byID := make(map[int]Rect, len(rects))
	for _, r := range rects {
		byID[mapping[r]] = r
	}

	reg := &Registry{
		entries: make([]Entry, 0, len(byID)),
		byID:    byID,
		byRect:  make(map[Rect]int, len(byID)),
	}
	for _, id := range slices.Sorted(maps.Keys(byID)) {
		r := byID[id]
		reg.entries = append(reg.entries, Entry{ID: id, Rect: r})
		reg.byRect[r] = id
	}
	return reg
}

// Entries returns the canonical pairs in ascending id order.
// The returned slice is a copy.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Len returns the number of ids in the registry.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Rect returns the rect owned by id.
func (r *Registry) Rect(id int) (Rect, bool) {
	rect, ok := r.byID[id]
	return rect, ok
}

// ID returns the id owning rect.
func (r *Registry) ID(rect Rect) (int, bool) {
	id, ok := r.byRect[rect]
	return id, ok
}

// Source returns the canonical entries as a source named name, with the
// advance of each id taken from the first of hints that carries it.
func (r *Registry) Source(name string, hints ...Source) Source {
	advances := make(map[int]float64)
	for i := len(hints) - 1; i >= 0; i-- {
		for _, g := range hints[i].Glyphs {
			if _, ok := r.byID[g.ID]; ok && g.Advance != 0 {
				advances[g.ID] = g.Advance
			}
		}
	}

	out := Source{Name: name, Glyphs: make([]GlyphEntry, 0, len(r.entries))}
	for _, e := range r.entries {
		out.Glyphs = append(out.Glyphs, GlyphEntry{ID: e.ID, Rect: e.Rect, Advance: advances[e.ID]})
	}
	return out
}

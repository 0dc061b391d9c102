package atlas

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/imgtool/pixbuf"
)

// NamedImage is one input image for packing. ID is carried through to the
// resulting Placement.
type NamedImage struct {
	Name  string
	ID    int
	Image *pixbuf.Buffer
}

// Placement records where a packed image landed in the atlas.
type Placement struct {
	Name string
	ID   int
	Rect Rect
}

// Packer packs images into a single square atlas with the given edge.
type Packer interface {
	Pack(images []NamedImage, size int) (*pixbuf.Buffer, []Placement, error)
}

// Packer limits.
const (
	MinAtlasSize = 16
	MaxAtlasSize = 8192
)

// ShelfPacker packs images onto horizontal shelves.
//
// Images are placed tallest first (ties keep input order) so that shelves
// fill evenly; placements are returned in input order. Each shelf is as tall
// as its tallest image and images are placed left to right until the shelf
// is full, then a new shelf is started below.
type ShelfPacker struct {
	// Padding is the gap in pixels between neighboring images.
	Padding int
}

// Validate checks the packer configuration for an atlas of the given edge.
func (p *ShelfPacker) Validate(size int) error {
	if size < MinAtlasSize {
		return &ConfigError{Field: "Size", Reason: fmt.Sprintf("must be at least %d", MinAtlasSize)}
	}
	if size > MaxAtlasSize {
		return &ConfigError{Field: "Size", Reason: fmt.Sprintf("must be at most %d", MaxAtlasSize)}
	}
	if p.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if p.Padding >= size/2 {
		return &ConfigError{Field: "Padding", Reason: "must be less than half Size"}
	}
	return nil
}

// Pack allocates a size x size RGBA8 atlas and copies every image into it.
// It fails with ErrAtlasFull if any image cannot be placed.
func (p *ShelfPacker) Pack(images []NamedImage, size int) (*pixbuf.Buffer, []Placement, error) {
	if err := p.Validate(size); err != nil {
		return nil, nil, err
	}
	for _, im := range images {
		if err := im.Image.Check(); err != nil {
			return nil, nil, fmt.Errorf("atlas: pack %s: %w", im.Name, err)
		}
	}

	order := make([]int, len(images))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(images[b].Image.Height(), images[a].Image.Height())
	})

	alloc := newShelfAllocator(size, size, p.Padding)
	placements := make([]Placement, len(images))
	for _, i := range order {
		im := images[i]
		w, h := im.Image.Width(), im.Image.Height()
		x, y, ok := alloc.allocate(w, h)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s (%dx%d) in %dx%d after %d images",
				ErrAtlasFull, im.Name, w, h, size, size, alloc.count)
		}
		placements[i] = Placement{Name: im.Name, ID: im.ID, Rect: Rect{X: x, Y: y, W: w, H: h}}
	}

	out, err := pixbuf.New(size, size, pixbuf.FormatRGBA8)
	if err != nil {
		return nil, nil, fmt.Errorf("atlas: pack: %w", err)
	}
	for i, im := range images {
		blit(out, im.Image, placements[i].Rect.X, placements[i].Rect.Y)
	}
	return out, placements, nil
}

// blit copies src into dst at (x, y). The region must fit.
func blit(dst, src *pixbuf.Buffer, x, y int) {
	sf, df := src.Format(), dst.Format()
	sbpp, dbpp := sf.BytesPerPixel(), df.BytesPerPixel()
	w := src.Width()
	for r := range src.Height() {
		srow := src.Row(r)
		drow := dst.Row(y + r)[x*dbpp : (x+w)*dbpp]
		if sf == df {
			copy(drow, srow)
			continue
		}
		for c := range w {
			pixbuf.ConvertPixel(drow[c*dbpp:], df, srow[c*sbpp:], sf)
		}
	}
}

// shelfAllocator implements shelf-based rectangle packing.
type shelfAllocator struct {
	width   int
	height  int
	padding int
	shelves []shelf
	count   int
}

// shelf is a horizontal strip in the atlas.
type shelf struct {
	y      int // top
	height int // tallest item so far
	x      int // next free column
}

func newShelfAllocator(width, height, padding int) *shelfAllocator {
	return &shelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate finds space for a w x h rectangle.
// Returns -1, -1, false when no shelf can take it.
func (a *shelfAllocator) allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + a.padding
	if w > a.width || h > a.height {
		return -1, -1, false
	}

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.x+w > a.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow, and only if there is room below.
			if i != len(a.shelves)-1 || s.y+h > a.height {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += paddedW
		a.count++
		return x, y, true
	}

	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height + a.padding
	}
	if newY+h > a.height {
		return -1, -1, false
	}
	a.shelves = append(a.shelves, shelf{y: newY, height: h, x: paddedW})
	a.count++
	return 0, newY, true
}

package atlas

import (
	"cmp"
	"fmt"
)

// Rect is an axis-aligned pixel rectangle inside an atlas image.
// Rect is comparable and used as a map key.
type Rect struct {
	X, Y int
	W, H int
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Inside reports whether r lies entirely within a width x height image.
func (r Rect) Inside(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= width && r.Y+r.H <= height
}

// Compare orders rects by X, then Y, then W, then H.
func (r Rect) Compare(o Rect) int {
	if c := cmp.Compare(r.X, o.X); c != 0 {
		return c
	}
	if c := cmp.Compare(r.Y, o.Y); c != 0 {
		return c
	}
	if c := cmp.Compare(r.W, o.W); c != 0 {
		return c
	}
	return cmp.Compare(r.H, o.H)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

package imgtool

import (
	"fmt"
	"strconv"
	"strings"
)

// placementPrefix introduces the textual placement form "rect:x,y,w,h".
const placementPrefix = "rect:"

// Placement is the requested destination rectangle of a paste.
// A zero W or H means "use the source dimension".
type Placement struct {
	X, Y int
	W, H int
}

// At returns a placement at (x, y) that keeps the source size.
func At(x, y int) Placement {
	return Placement{X: x, Y: y}
}

// resolve fills in a zero width or height from the source size.
func (p Placement) resolve(srcW, srcH int) Placement {
	if p.W == 0 {
		p.W = srcW
	}
	if p.H == 0 {
		p.H = srcH
	}
	return p
}

// String returns the placement in the form accepted by ParsePlacement.
func (p Placement) String() string {
	return fmt.Sprintf("%s%d,%d,%d,%d", placementPrefix, p.X, p.Y, p.W, p.H)
}

// ParsePlacement parses "rect:x,y,w,h" or "rect:x,y".
// Coordinates may be negative; the short form keeps the source size.
func ParsePlacement(s string) (Placement, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(s), placementPrefix)
	if !ok {
		return Placement{}, fmt.Errorf("%w: %q: missing %q prefix", ErrInvalidPlacement, s, placementPrefix)
	}
	parts := strings.Split(body, ",")
	if len(parts) != 2 && len(parts) != 4 {
		return Placement{}, fmt.Errorf("%w: %q: want 2 or 4 fields, got %d", ErrInvalidPlacement, s, len(parts))
	}

	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Placement{}, fmt.Errorf("%w: %q: %w", ErrInvalidPlacement, s, err)
		}
		v[i] = n
	}
	return Placement{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

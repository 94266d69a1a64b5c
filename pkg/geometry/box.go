package geometry

import "math"

// Box is an axis-aligned bounding box with inclusive bounds.
// The zero value is a degenerate box containing only the origin; use
// [EmptyBox] for a box that contains nothing.
type Box struct {
	Min, Max Point
}

// EmptyBox returns a box that contains no points and grows with [Box.Extend].
func EmptyBox() Box {
	return Box{
		Min: Point{math.MaxInt64, math.MaxInt64},
		Max: Point{math.MinInt64, math.MinInt64},
	}
}

// Empty reports whether the box contains no points.
func (b Box) Empty() bool { return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y }

// Extend returns the smallest box containing b and p.
func (b Box) Extend(p Point) Box {
	return Box{
		Min: Point{min(b.Min.X, p.X), min(b.Min.Y, p.Y)},
		Max: Point{max(b.Max.X, p.X), max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	if o.Empty() {
		return b
	}
	if b.Empty() {
		return o
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Inflate grows the box by d on every side. Empty boxes stay empty.
func (b Box) Inflate(d int64) Box {
	if b.Empty() {
		return b
	}
	return Box{
		Min: Point{b.Min.X - d, b.Min.Y - d},
		Max: Point{b.Max.X + d, b.Max.Y + d},
	}
}

// Contains reports whether p lies inside or on the box.
func (b Box) Contains(p Point) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X && b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

// Size returns the width and height of the box.
func (b Box) Size() (w, h int64) {
	if b.Empty() {
		return 0, 0
	}
	return b.Max.X - b.Min.X, b.Max.Y - b.Min.Y
}
